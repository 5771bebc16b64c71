package detectors

import "testing"

func TestCheckboxDetectorSquareChecked(t *testing.T) {
	g := newGrid(3, 30)
	writeRow(g, 0, "[x] Enable logging")

	got := CheckboxDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 checkbox, got %d", len(got))
	}
	if !got[0].Element.Checked {
		t.Errorf("expected checked = true")
	}
	if got[0].Element.Label != "Enable logging" {
		t.Errorf("label = %q, want \"Enable logging\"", got[0].Element.Label)
	}
}

func TestCheckboxDetectorParenUnchecked(t *testing.T) {
	g := newGrid(3, 30)
	writeRow(g, 0, "( ) Skip tests")

	got := CheckboxDetector{}.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 checkbox, got %d", len(got))
	}
	if got[0].Element.Checked {
		t.Errorf("expected checked = false")
	}
}

func TestCheckboxDetectorLabelTruncatedAtNextBracket(t *testing.T) {
	g := newGrid(3, 30)
	writeRow(g, 0, "[x] First [ ] Second")

	got := CheckboxDetector{}.Detect(g, newCtx())
	if len(got) != 2 {
		t.Fatalf("expected 2 checkboxes, got %d", len(got))
	}
	if got[0].Element.Label != "First" {
		t.Errorf("label = %q, want \"First\"", got[0].Element.Label)
	}
}
