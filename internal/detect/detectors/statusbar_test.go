package detectors

import (
	"testing"

	"github.com/tstmcp/terminal-mcp/internal/cell"
)

func TestStatusBarDetectorMarkerText(t *testing.T) {
	g := newGrid(5, 40)
	writeRow(g, 4, "Press q to quit | Ctrl+S to save")

	got := StatusBarDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 status bar, got %d", len(got))
	}
}

func TestStatusBarDetectorEmptyLastRow(t *testing.T) {
	g := newGrid(5, 40)

	got := StatusBarDetector{}.Detect(g, newCtx())
	if len(got) != 0 {
		t.Errorf("empty last row should not be a status bar, got %d", len(got))
	}
}

func TestStatusBarDetectorNonDefaultBackgroundFallback(t *testing.T) {
	g := newGrid(5, 40)
	for c := 0; c < 10; c++ {
		cl := cell.NewCell('x')
		cl.Bg = cell.Indexed(4)
		g.SetCell(4, c, cl)
	}

	got := StatusBarDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 status bar via non-default background, got %d", len(got))
	}
}
