package grid

import (
	"testing"

	"github.com/tstmcp/terminal-mcp/internal/cell"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
)

func dims(rows, cols int) geometry.Dimensions {
	return geometry.Dimensions{Rows: rows, Cols: cols}
}

func TestGridIntegrity(t *testing.T) {
	g := New(dims(24, 80))
	if len(g.cells) != 24*80 {
		t.Fatalf("cell storage length = %d, want %d", len(g.cells), 24*80)
	}
	c := g.Cursor()
	if c.Position.Row < 0 || c.Position.Row >= 24 || c.Position.Col < 0 || c.Position.Col >= 80 {
		t.Fatalf("cursor out of bounds: %+v", c.Position)
	}
}

func TestWriteCharWrap(t *testing.T) {
	g := New(dims(2, 3))
	for i := 0; i < 3; i++ {
		g.WriteChar('x')
	}
	c := g.Cursor()
	if c.Position != (geometry.Position{Row: 1, Col: 0}) {
		t.Fatalf("after wrapping past row 0, cursor = %+v, want {1 0}", c.Position)
	}
}

func TestWriteCharClampsOnLastRow(t *testing.T) {
	g := New(dims(1, 2))
	g.WriteChar('a')
	g.WriteChar('b')
	g.WriteChar('c') // wraps past last row; must clamp, not scroll
	c := g.Cursor()
	if c.Position != (geometry.Position{Row: 0, Col: 1}) {
		t.Fatalf("cursor after overflow on last row = %+v, want {0 1}", c.Position)
	}
	ch, _ := g.Cell(0, 0)
	if ch.Character != 'c' {
		t.Fatalf("expected last-row wrap to overwrite (0,0), got %q", ch.Character)
	}
}

func TestResizePreservesRectangle(t *testing.T) {
	g := New(dims(5, 5))
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			g.SetCell(r, c, cell.NewCell(rune('A'+r*5+c)))
		}
	}

	g.Resize(dims(3, 3))

	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			got, _ := g.Cell(r, c)
			want := rune('A' + r*5 + c)
			if got.Character != want {
				t.Errorf("cell(%d,%d) = %q, want %q", r, c, got.Character, want)
			}
		}
	}
}

func TestResizeClampsCursor(t *testing.T) {
	g := New(dims(10, 10))
	g.MoveCursor(8, 8)
	g.Resize(dims(3, 3))
	c := g.Cursor()
	if c.Position.Row >= 3 || c.Position.Col >= 3 {
		t.Fatalf("cursor not clamped after shrink: %+v", c.Position)
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	g := New(dims(10, 10))
	g.MoveCursor(4, 5)
	g.SaveCursor()
	g.MoveCursor(0, 0)
	g.RestoreCursor()
	if g.Cursor().Position != (geometry.Position{Row: 4, Col: 5}) {
		t.Fatalf("restore did not return to saved position")
	}
}

func TestRestoreCursorNoopWhenNothingSaved(t *testing.T) {
	g := New(dims(10, 10))
	g.MoveCursor(3, 3)
	g.RestoreCursor()
	if g.Cursor().Position != (geometry.Position{Row: 3, Col: 3}) {
		t.Fatalf("restore with nothing saved should be a no-op")
	}
}

func TestExtractTextTrimsTrailingSpace(t *testing.T) {
	g := New(dims(2, 5))
	for _, ch := range "hi" {
		g.WriteChar(ch)
	}
	text := g.ExtractText(geometry.NewBounds(0, 0, 5, 1))
	if text != "hi" {
		t.Fatalf("ExtractText = %q, want %q", text, "hi")
	}
}

func TestEraseLine(t *testing.T) {
	g := New(dims(1, 5))
	for _, ch := range "abcde" {
		g.WriteChar(ch)
	}
	g.MoveCursor(0, 2)
	g.EraseLine(0) // erase from col 2 to end
	text := g.ExtractText(geometry.NewBounds(0, 0, 5, 1))
	if text != "ab" {
		t.Fatalf("EraseLine(0) left %q, want %q", text, "ab")
	}
}
