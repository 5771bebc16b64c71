package vtparser

import (
	"testing"

	"github.com/tstmcp/terminal-mcp/internal/cell"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
)

func newTestParser(rows, cols int) (*Parser, *grid.Grid) {
	g := grid.New(geometry.Dimensions{Rows: rows, Cols: cols})
	return New(g), g
}

func TestPrintAdvancesCursor(t *testing.T) {
	p, g := newTestParser(5, 10)
	p.ProcessRunes("hi")
	c := g.Cursor()
	if c.Position.Col != 2 {
		t.Fatalf("cursor col = %d, want 2", c.Position.Col)
	}
	ch, _ := g.Cell(0, 0)
	if ch.Character != 'h' {
		t.Errorf("cell(0,0) = %q, want h", ch.Character)
	}
}

func TestCRLF(t *testing.T) {
	p, g := newTestParser(5, 10)
	p.ProcessRunes("ab\r\ncd")
	c := g.Cursor()
	if c.Position.Row != 1 || c.Position.Col != 2 {
		t.Fatalf("cursor = %+v, want {1 2}", c.Position)
	}
}

func TestCSICursorMovement(t *testing.T) {
	p, g := newTestParser(10, 10)
	p.ProcessRunes("\x1b[5;5H")
	c := g.Cursor()
	if c.Position != (geometry.Position{Row: 4, Col: 4}) {
		t.Fatalf("CSI H moved cursor to %+v, want {4 4}", c.Position)
	}

	p.ProcessRunes("\x1b[2A")
	c = g.Cursor()
	if c.Position.Row != 2 {
		t.Errorf("CSI 2A moved cursor to row %d, want 2", c.Position.Row)
	}
}

func TestSGRReverseAttribute(t *testing.T) {
	p, g := newTestParser(3, 20)
	p.ProcessRunes("\x1b[7mX\x1b[0mY")
	rev, _ := g.Cell(0, 0)
	plain, _ := g.Cell(0, 1)
	if !rev.Attrs.Reverse {
		t.Errorf("expected first cell to have reverse attribute")
	}
	if plain.Attrs.Reverse {
		t.Errorf("SGR 0 should have reset reverse before writing Y")
	}
}

func TestSGRIndexedColor(t *testing.T) {
	p, g := newTestParser(3, 20)
	p.ProcessRunes("\x1b[38;5;200mX")
	c, _ := g.Cell(0, 0)
	if c.Fg != cell.Indexed(200) {
		t.Errorf("fg = %+v, want indexed 200", c.Fg)
	}
}

func TestBoxDrawingCharactersPassThrough(t *testing.T) {
	p, g := newTestParser(3, 20)
	p.ProcessRunes("┌─┐")
	c, _ := g.Cell(0, 0)
	if c.Character != '┌' {
		t.Errorf("box drawing char not preserved: got %q", c.Character)
	}
}

func TestOSCDoesNotCorruptState(t *testing.T) {
	p, g := newTestParser(3, 20)
	p.ProcessRunes("\x1b]0;some title\x07hello")
	c := g.Cursor()
	if c.Position.Col != 5 {
		t.Fatalf("OSC sequence leaked into grid writes: cursor col = %d, want 5", c.Position.Col)
	}
}

func TestBackspaceAndTab(t *testing.T) {
	p, g := newTestParser(3, 40)
	p.ProcessRunes("abc\bX")
	ch, _ := g.Cell(0, 2)
	if ch.Character != 'X' {
		t.Errorf("backspace then write should overwrite col 2, got %q", ch.Character)
	}
}
