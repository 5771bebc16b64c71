// Package detect implements the element-detection pipeline: the detector
// contract, region-claiming, and the ordered runner that turns a grid into
// a list of DetectedElement.
package detect

import (
	"fmt"

	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// Confidence reflects how sure a detector is about a match.
type Confidence int

const (
	Low Confidence = iota
	Medium
	High
)

// DetectedElement is one detector's output before assembly into a TST.
type DetectedElement struct {
	Element    tst.Element
	Bounds     geometry.Bounds
	Confidence Confidence
}

// RefIDGenerator hands out stable-within-one-run ids of the form
// "<type>_<n>", a monotonic per-type counter reset per snapshot.
type RefIDGenerator struct {
	counters map[string]int
}

// NewRefIDGenerator builds a fresh generator; construct one per snapshot.
func NewRefIDGenerator() *RefIDGenerator {
	return &RefIDGenerator{counters: make(map[string]int)}
}

// Next returns the next id for typeName, e.g. Next("menu") -> "menu_0".
func (g *RefIDGenerator) Next(typeName string) string {
	n := g.counters[typeName]
	g.counters[typeName] = n + 1
	return fmt.Sprintf("%s_%d", typeName, n)
}

// Context carries the shared state threaded through one pipeline run.
type Context struct {
	Cursor          geometry.Position
	ClaimedRegions  []geometry.Bounds
	PreviousElements []tst.Element
	Refs            *RefIDGenerator
}

// NewContext builds a context for one detection run.
func NewContext(cursor geometry.Position, previous []tst.Element) *Context {
	return &Context{Cursor: cursor, PreviousElements: previous, Refs: NewRefIDGenerator()}
}

// IsClaimed reports whether b intersects any already-claimed region.
func (c *Context) IsClaimed(b geometry.Bounds) bool {
	for _, claimed := range c.ClaimedRegions {
		if claimed.Intersects(b) {
			return true
		}
	}
	return false
}

// Claim records b as claimed so lower-priority detectors skip it.
func (c *Context) Claim(b geometry.Bounds) {
	c.ClaimedRegions = append(c.ClaimedRegions, b)
}

// Detector is the contract every element detector satisfies.
type Detector interface {
	Name() string
	Priority() int
	Detect(g *grid.Grid, ctx *Context) []DetectedElement
}

// Pipeline runs detectors in priority-descending order, claiming regions
// as it goes so lower-priority detectors skip already-matched bounds.
type Pipeline struct {
	detectors []Detector
}

// NewPipeline sorts ds by descending priority and builds a Pipeline.
func NewPipeline(ds ...Detector) *Pipeline {
	sorted := make([]Detector, len(ds))
	copy(sorted, ds)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Priority() < sorted[j].Priority(); j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return &Pipeline{detectors: sorted}
}

// Detect runs every detector in order and returns the concatenated output.
func (p *Pipeline) Detect(g *grid.Grid, cursor geometry.Position, previous []tst.Element) []DetectedElement {
	ctx := NewContext(cursor, previous)
	var out []DetectedElement
	for _, d := range p.detectors {
		found := d.Detect(g, ctx)
		for _, de := range found {
			ctx.Claim(de.Bounds)
		}
		out = append(out, found...)
	}
	return out
}
