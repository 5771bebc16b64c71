package detectors

import (
	"regexp"
	"testing"
)

func TestCustomPatternDetectorEmitsText(t *testing.T) {
	g := newGrid(3, 40)
	writeRow(g, 0, "build finished in 12.4s")

	d := CustomPatternDetector{Patterns: []*regexp.Regexp{
		regexp.MustCompile(`finished in ([\d.]+)s`),
	}}

	got := d.Detect(g, newCtx())
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].Element.Content != "12.4" {
		t.Errorf("content = %q, want \"12.4\"", got[0].Element.Content)
	}
}

func TestCustomPatternDetectorNoMatch(t *testing.T) {
	g := newGrid(3, 40)
	writeRow(g, 0, "nothing interesting here")

	d := CustomPatternDetector{Patterns: []*regexp.Regexp{
		regexp.MustCompile(`error: (\w+)`),
	}}

	got := d.Detect(g, newCtx())
	if len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}
