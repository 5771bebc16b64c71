// Package tst implements the Terminal State Tree data model: the element
// union, the tree itself, and the assembler that builds one from detected
// elements.
package tst

import "github.com/tstmcp/terminal-mcp/internal/geometry"

// Kind discriminates the Element tagged union.
type Kind int

const (
	KindMenu Kind = iota
	KindTable
	KindInput
	KindButton
	KindProgressBar
	KindCheckbox
	KindStatusBar
	KindBorder
	KindText
)

// TypeName returns the exact lower_snake_case string used for type_name()
// comparisons in wait conditions and element-type config. These strings
// are load-bearing and must not change casually.
func (k Kind) TypeName() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindTable:
		return "table"
	case KindInput:
		return "input"
	case KindButton:
		return "button"
	case KindProgressBar:
		return "progress_bar"
	case KindCheckbox:
		return "checkbox"
	case KindStatusBar:
		return "status_bar"
	case KindBorder:
		return "border"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// MenuItem is one row of a Menu element.
type MenuItem struct {
	RefID    string `json:"ref_id"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// Element is the discriminated union of detectable widgets. Every variant
// carries RefID and Bounds; only the fields relevant to Kind are set.
type Element struct {
	Kind   Kind            `json:"-"`
	RefID  string          `json:"ref_id"`
	Bounds geometry.Bounds `json:"bounds"`

	// Menu
	Items    []MenuItem `json:"items,omitempty"`
	Selected int        `json:"selected,omitempty"`

	// Table
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`

	// Input
	Value     string `json:"value,omitempty"`
	CursorPos int    `json:"cursor_pos,omitempty"`

	// Button / Checkbox label, StatusBar/Text content, Border title
	Label   string  `json:"label,omitempty"`
	Content string  `json:"content,omitempty"`
	Title   *string `json:"title,omitempty"`

	// ProgressBar
	Percent int `json:"percent,omitempty"`

	// Checkbox
	Checked bool `json:"checked,omitempty"`

	// Border
	Children []string `json:"children,omitempty"`
}

// TypeName is a convenience forwarding to Kind.TypeName.
func (e Element) TypeName() string { return e.Kind.TypeName() }

// TerminalStateTree is the outward snapshot an agent receives.
type TerminalStateTree struct {
	SessionID  string              `json:"session_id"`
	Dimensions geometry.Dimensions `json:"dimensions"`
	Cursor     geometry.Position   `json:"cursor"`
	Timestamp  string              `json:"timestamp"`
	Elements   []Element           `json:"elements"`
	RawText    string              `json:"raw_text"`
	ANSIBuffer *string             `json:"ansi_buffer,omitempty"`
}

// FindElement locates an element by ref id, or returns (Element{}, false).
func (t TerminalStateTree) FindElement(refID string) (Element, bool) {
	for _, e := range t.Elements {
		if e.RefID == refID {
			return e, true
		}
	}
	return Element{}, false
}
