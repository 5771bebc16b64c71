package detect

import (
	"testing"

	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

type stubDetector struct {
	name     string
	priority int
	bounds   geometry.Bounds
}

func (s stubDetector) Name() string  { return s.name }
func (s stubDetector) Priority() int { return s.priority }
func (s stubDetector) Detect(_ *grid.Grid, ctx *Context) []DetectedElement {
	if ctx.IsClaimed(s.bounds) {
		return nil
	}
	return []DetectedElement{{
		Element:    tst.Element{Kind: tst.KindText, RefID: s.name, Bounds: s.bounds, Content: s.name},
		Bounds:     s.bounds,
		Confidence: High,
	}}
}

func TestRefIDGeneratorMonotonic(t *testing.T) {
	g := NewRefIDGenerator()
	if got := g.Next("menu"); got != "menu_0" {
		t.Fatalf("first = %q, want menu_0", got)
	}
	if got := g.Next("menu"); got != "menu_1" {
		t.Fatalf("second = %q, want menu_1", got)
	}
	if got := g.Next("button"); got != "button_0" {
		t.Fatalf("other type = %q, want button_0", got)
	}
}

func TestContextClaimAndIsClaimed(t *testing.T) {
	ctx := NewContext(geometry.Position{}, nil)
	b := geometry.NewBounds(0, 0, 5, 2)
	if ctx.IsClaimed(b) {
		t.Fatalf("nothing claimed yet")
	}
	ctx.Claim(b)
	overlapping := geometry.NewBounds(1, 1, 5, 2)
	if !ctx.IsClaimed(overlapping) {
		t.Errorf("overlapping region should be claimed")
	}
	disjoint := geometry.NewBounds(10, 10, 2, 2)
	if ctx.IsClaimed(disjoint) {
		t.Errorf("disjoint region should not be claimed")
	}
}

func TestPipelineOrdersByPriorityAndClaimsRegions(t *testing.T) {
	g := grid.New(geometry.Dimensions{Rows: 10, Cols: 10})
	overlapping := geometry.NewBounds(0, 0, 5, 5)

	hi := stubDetector{name: "hi", priority: 100, bounds: overlapping}
	lo := stubDetector{name: "lo", priority: 10, bounds: overlapping}
	pipeline := NewPipeline(lo, hi) // deliberately out of order

	got := pipeline.Detect(g, geometry.Position{}, nil)
	if len(got) != 1 {
		t.Fatalf("expected the lower-priority detector's overlapping region to be claimed, got %d elements", len(got))
	}
	if got[0].Element.RefID != "hi" {
		t.Errorf("expected higher-priority detector to run first, got %q", got[0].Element.RefID)
	}
}
