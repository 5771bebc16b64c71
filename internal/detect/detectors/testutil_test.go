package detectors

import (
	"github.com/tstmcp/terminal-mcp/internal/cell"
	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
)

func newGrid(rows, cols int) *grid.Grid {
	return grid.New(geometry.Dimensions{Rows: rows, Cols: cols})
}

func writeRow(g *grid.Grid, row int, text string) {
	for col, r := range []rune(text) {
		g.SetCell(row, col, cell.NewCell(r))
	}
}

// writeReverseRun writes text at row starting at startCol with the
// reverse attribute set across the whole run, matching how a real
// reverse-video highlighted field styles its padding spaces too.
func writeReverseRun(g *grid.Grid, row, startCol int, text string) {
	for i, r := range []rune(text) {
		c := cell.NewCell(r)
		c.Attrs.Reverse = true
		g.SetCell(row, startCol+i, c)
	}
}

func writeBoldRow(g *grid.Grid, row int, text string) {
	for col, r := range []rune(text) {
		c := cell.NewCell(r)
		if r != ' ' {
			c.Attrs.Bold = true
		}
		g.SetCell(row, col, c)
	}
}

func newCtx() *detect.Context {
	return detect.NewContext(geometry.Position{}, nil)
}

func newCtxAt(row, col int) *detect.Context {
	return detect.NewContext(geometry.Position{Row: row, Col: col}, nil)
}
