package detectors

import "testing"

func TestBorderDetectorLightBox(t *testing.T) {
	g := newGrid(5, 20)
	writeRow(g, 0, "┌─ Title ─┐")
	writeRow(g, 1, "│         │")
	writeRow(g, 2, "└─────────┘")

	got := BorderDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 border, got %d", len(got))
	}
	if got[0].Element.Title == nil || *got[0].Element.Title != "Title" {
		t.Errorf("title = %v, want \"Title\"", got[0].Element.Title)
	}
}

func TestBorderDetectorNestedFilteredOut(t *testing.T) {
	g := newGrid(10, 30)
	writeRow(g, 0, "┌────────────────────┐")
	for r := 1; r <= 6; r++ {
		writeRow(g, r, "│                    │")
	}
	writeRow(g, 2, "│ ┌────┐             │")
	writeRow(g, 3, "│ │    │             │")
	writeRow(g, 4, "│ └────┘             │")
	writeRow(g, 7, "└────────────────────┘")

	got := BorderDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected the inner border to be filtered as nested, got %d borders", len(got))
	}
}

func TestBorderDetectorAsciiBox(t *testing.T) {
	g := newGrid(5, 10)
	writeRow(g, 0, "+------+")
	writeRow(g, 1, "|      |")
	writeRow(g, 2, "+------+")

	got := BorderDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 ascii border, got %d", len(got))
	}
}
