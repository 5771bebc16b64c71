package detectors

import "testing"

func TestButtonDetectorBracketed(t *testing.T) {
	g := newGrid(3, 30)
	writeRow(g, 0, "[ OK ]   [ Cancel ]")

	got := ButtonDetector{}.Detect(g, newCtx())
	if len(got) != 2 {
		t.Fatalf("expected 2 buttons, got %d: %+v", len(got), got)
	}
	if got[0].Element.Label != "OK" {
		t.Errorf("first label = %q, want OK", got[0].Element.Label)
	}
	if got[1].Element.Label != "Cancel" {
		t.Errorf("second label = %q, want Cancel", got[1].Element.Label)
	}
}

func TestButtonDetectorSkipsShellPrompt(t *testing.T) {
	g := newGrid(3, 30)
	writeRow(g, 0, "user@host:~$ [ls]")

	got := ButtonDetector{}.Detect(g, newCtx())
	if len(got) != 0 {
		t.Errorf("shell prompt row should be skipped, got %d buttons", len(got))
	}
}

func TestButtonDetectorRejectsOverlongLabel(t *testing.T) {
	g := newGrid(3, 60)
	writeRow(g, 0, "[ this label is extremely long and exceeds the cap ]")

	got := ButtonDetector{}.Detect(g, newCtx())
	if len(got) != 0 {
		t.Errorf("overlong label should be rejected, got %d", len(got))
	}
}
