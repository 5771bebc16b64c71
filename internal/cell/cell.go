// Package cell holds the styled-character types that make up a grid row.
package cell

// ColorKind discriminates the Color tagged union.
type ColorKind int

const (
	ColorDefault ColorKind = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorIndexed
	ColorRGB
)

// Color is a terminal color: default, one of the 16 ANSI colors, a
// 256-color palette index, or true 24-bit RGB.
type Color struct {
	Kind    ColorKind
	Index   uint8 // valid when Kind == ColorIndexed
	R, G, B uint8 // valid when Kind == ColorRGB
}

// Default is the terminal's default color.
var Default = Color{Kind: ColorDefault}

// Indexed builds a 256-color palette color.
func Indexed(i uint8) Color {
	return Color{Kind: ColorIndexed, Index: i}
}

// RGB builds a true-color color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// ansiBase maps SGR codes 30-37/40-47 to the Color kind.
var ansiBase = [8]ColorKind{
	ColorBlack, ColorRed, ColorGreen, ColorYellow,
	ColorBlue, ColorMagenta, ColorCyan, ColorWhite,
}

var ansiBright = [8]ColorKind{
	ColorBrightBlack, ColorBrightRed, ColorBrightGreen, ColorBrightYellow,
	ColorBrightBlue, ColorBrightMagenta, ColorBrightCyan, ColorBrightWhite,
}

// ANSI builds one of the 8 standard colors by 0-7 offset.
func ANSI(offset int) Color {
	return Color{Kind: ansiBase[offset&7]}
}

// BrightANSI builds one of the 8 bright colors by 0-7 offset.
func BrightANSI(offset int) Color {
	return Color{Kind: ansiBright[offset&7]}
}

// Attributes are the eight independent boolean text attributes.
type Attributes struct {
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Blink         bool
	Reverse       bool
	Hidden        bool
	Strikethrough bool
}

// IsDefault reports whether no attribute is set.
func (a Attributes) IsDefault() bool {
	return a == Attributes{}
}

// Cell is a single position in the grid.
type Cell struct {
	Character rune
	Fg        Color
	Bg        Color
	Attrs     Attributes
}

// Blank is the default cell: a space with default color and attributes.
var Blank = Cell{Character: ' ', Fg: Default, Bg: Default}

// NewCell builds a cell holding ch with default styling.
func NewCell(ch rune) Cell {
	return Cell{Character: ch, Fg: Default, Bg: Default}
}

// IsEmpty reports whether the cell is a plain space with no attributes.
func (c Cell) IsEmpty() bool {
	return c.Character == ' ' && c.Attrs.IsDefault()
}

// IsWhitespace reports whether the cell's character is whitespace.
func (c Cell) IsWhitespace() bool {
	switch c.Character {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
