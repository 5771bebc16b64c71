// Package grid implements the row-major cell buffer the VT parser mutates
// and the detection pipeline scans.
package grid

import (
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/cell"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
)

// CursorStyle is the visual shape of the cursor. It has no effect on grid
// semantics; it is carried for parity with terminals that report it.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// Cursor is the grid's movable write position plus its rendering hints.
type Cursor struct {
	Position geometry.Position
	Visible  bool
	Style    CursorStyle
}

// ScrollRegion is an inclusive (top, bottom) row pair. Reserved for future
// use; nothing in this package currently consults it.
type ScrollRegion struct {
	Top, Bottom int
}

// Grid is a rows*cols cell buffer plus cursor and SGR write state.
type Grid struct {
	dims   geometry.Dimensions
	cells  []cell.Cell
	cursor Cursor
	saved  *Cursor

	currentAttrs cell.Attributes
	currentFg    cell.Color
	currentBg    cell.Color

	scrollRegion *ScrollRegion
}

// New builds a blank grid of the given dimensions with the cursor at the
// origin, visible, block-styled.
func New(dims geometry.Dimensions) *Grid {
	g := &Grid{
		dims:      dims,
		cells:     make([]cell.Cell, dims.Rows*dims.Cols),
		cursor:    Cursor{Position: geometry.Position{}, Visible: true, Style: CursorBlock},
		currentFg: cell.Default,
		currentBg: cell.Default,
	}
	for i := range g.cells {
		g.cells[i] = cell.Blank
	}
	return g
}

// Dimensions returns the grid's current size.
func (g *Grid) Dimensions() geometry.Dimensions { return g.dims }

// Cursor returns the current cursor state.
func (g *Grid) Cursor() Cursor { return g.cursor }

func (g *Grid) index(r, c int) int { return r*g.dims.Cols + c }

func (g *Grid) inBounds(r, c int) bool {
	return r >= 0 && r < g.dims.Rows && c >= 0 && c < g.dims.Cols
}

// Cell returns the cell at (r,c), or false if out of bounds.
func (g *Grid) Cell(r, c int) (cell.Cell, bool) {
	if !g.inBounds(r, c) {
		return cell.Cell{}, false
	}
	return g.cells[g.index(r, c)], true
}

// SetCell writes a cell at (r,c). No-op if out of bounds.
func (g *Grid) SetCell(r, c int, v cell.Cell) {
	if !g.inBounds(r, c) {
		return
	}
	g.cells[g.index(r, c)] = v
}

// Row returns a copy of row r, or nil if out of bounds.
func (g *Grid) Row(r int) []cell.Cell {
	if r < 0 || r >= g.dims.Rows {
		return nil
	}
	row := make([]cell.Cell, g.dims.Cols)
	copy(row, g.cells[g.index(r, 0):g.index(r, 0)+g.dims.Cols])
	return row
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (g *Grid) clampCursor() {
	g.cursor.Position.Row = clamp(g.cursor.Position.Row, 0, g.dims.Rows-1)
	g.cursor.Position.Col = clamp(g.cursor.Position.Col, 0, g.dims.Cols-1)
}

// MoveCursor sets cursor position, clamping into bounds.
func (g *Grid) MoveCursor(row, col int) {
	g.cursor.Position = geometry.Position{Row: row, Col: col}
	g.clampCursor()
}

// CurrentStyle returns the SGR state new writes pick up.
func (g *Grid) CurrentStyle() (cell.Color, cell.Color, cell.Attributes) {
	return g.currentFg, g.currentBg, g.currentAttrs
}

// SetCurrentStyle replaces the SGR state used by subsequent writes.
func (g *Grid) SetCurrentStyle(fg, bg cell.Color, attrs cell.Attributes) {
	g.currentFg, g.currentBg, g.currentAttrs = fg, bg, attrs
}

// WriteChar writes ch at the cursor using the current SGR state and
// advances the cursor one column, wrapping to column 0 of the next row on
// overflow. The last row does not scroll: wrapping past it clamps to the
// last row, per the parser's documented wrap-on-last-line behavior.
func (g *Grid) WriteChar(ch rune) {
	g.SetCell(g.cursor.Position.Row, g.cursor.Position.Col, cell.Cell{
		Character: ch,
		Fg:        g.currentFg,
		Bg:        g.currentBg,
		Attrs:     g.currentAttrs,
	})
	g.cursor.Position.Col++
	if g.cursor.Position.Col >= g.dims.Cols {
		g.cursor.Position.Col = 0
		g.cursor.Position.Row = clamp(g.cursor.Position.Row+1, 0, g.dims.Rows-1)
	}
}

// SaveCursor stashes the cursor for a later RestoreCursor.
func (g *Grid) SaveCursor() {
	saved := g.cursor
	g.saved = &saved
}

// RestoreCursor restores a previously saved cursor. No-op if nothing was
// saved.
func (g *Grid) RestoreCursor() {
	if g.saved == nil {
		return
	}
	g.cursor = *g.saved
	g.clampCursor()
}

// Clear overwrites every cell with the default cell. Cursor is untouched.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = cell.Blank
	}
}

// ClearRegion overwrites every cell in bounds with the default cell.
func (g *Grid) ClearRegion(b geometry.Bounds) {
	for r := b.Row; r < b.Row+b.Height && r < g.dims.Rows; r++ {
		for c := b.Col; c < b.Col+b.Width && c < g.dims.Cols; c++ {
			if r >= 0 && c >= 0 {
				g.SetCell(r, c, cell.Blank)
			}
		}
	}
}

// EraseLine implements CSI K (0=right, 1=left-inclusive, 2=entire line) on
// the cursor's current row.
func (g *Grid) EraseLine(mode int) {
	row := g.cursor.Position.Row
	switch mode {
	case 0:
		for c := g.cursor.Position.Col; c < g.dims.Cols; c++ {
			g.SetCell(row, c, cell.Blank)
		}
	case 1:
		for c := 0; c <= g.cursor.Position.Col && c < g.dims.Cols; c++ {
			g.SetCell(row, c, cell.Blank)
		}
	case 2:
		for c := 0; c < g.dims.Cols; c++ {
			g.SetCell(row, c, cell.Blank)
		}
	}
}

// EraseDisplay implements CSI J (0=below, 1=above+current row up to
// cursor inclusive, 2=entire screen).
func (g *Grid) EraseDisplay(mode int) {
	switch mode {
	case 0:
		g.EraseLine(0)
		for r := g.cursor.Position.Row + 1; r < g.dims.Rows; r++ {
			for c := 0; c < g.dims.Cols; c++ {
				g.SetCell(r, c, cell.Blank)
			}
		}
	case 1:
		for r := 0; r < g.cursor.Position.Row; r++ {
			for c := 0; c < g.dims.Cols; c++ {
				g.SetCell(r, c, cell.Blank)
			}
		}
		for c := 0; c <= g.cursor.Position.Col && c < g.dims.Cols; c++ {
			g.SetCell(g.cursor.Position.Row, c, cell.Blank)
		}
	case 2:
		g.Clear()
	}
}

// ExtractText concatenates characters across the rectangle, separating
// rows with "\n" and right-trimming each row.
func (g *Grid) ExtractText(b geometry.Bounds) string {
	var sb strings.Builder
	for r := b.Row; r < b.Row+b.Height; r++ {
		if r < 0 || r >= g.dims.Rows {
			continue
		}
		if r > b.Row {
			sb.WriteByte('\n')
		}
		var line strings.Builder
		for c := b.Col; c < b.Col+b.Width; c++ {
			if c < 0 || c >= g.dims.Cols {
				continue
			}
			ch, _ := g.Cell(r, c)
			line.WriteRune(ch.Character)
		}
		sb.WriteString(strings.TrimRight(line.String(), " \t"))
	}
	return sb.String()
}

// ToPlainText runs ExtractText over the full grid.
func (g *Grid) ToPlainText() string {
	return g.ExtractText(geometry.NewBounds(0, 0, g.dims.Cols, g.dims.Rows))
}

// Resize allocates a fresh buffer of the new dimensions, copies the
// top-left min(old,new) rectangle verbatim, clamps the cursor, and keeps
// the current SGR write state.
func (g *Grid) Resize(newDims geometry.Dimensions) {
	fresh := make([]cell.Cell, newDims.Rows*newDims.Cols)
	for i := range fresh {
		fresh[i] = cell.Blank
	}

	minRows := newDims.Rows
	if g.dims.Rows < minRows {
		minRows = g.dims.Rows
	}
	minCols := newDims.Cols
	if g.dims.Cols < minCols {
		minCols = g.dims.Cols
	}

	for r := 0; r < minRows; r++ {
		for c := 0; c < minCols; c++ {
			fresh[r*newDims.Cols+c] = g.cells[r*g.dims.Cols+c]
		}
	}

	g.cells = fresh
	g.dims = newDims
	g.clampCursor()
}
