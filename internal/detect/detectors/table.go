package detectors

import (
	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// TableDetector recognizes column-aligned row groups.
type TableDetector struct{}

func (TableDetector) Name() string  { return "table" }
func (TableDetector) Priority() int { return 80 }

const minTableColumns = 2
const minTableRows = 2

func (TableDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	cols := g.Dimensions().Cols
	var out []detect.DetectedElement

	for _, group := range nonEmptyRowGroups(g, 2) {
		start, end := group[0], group[1]
		bounds := geometry.NewBounds(start, 0, cols, end-start)
		if ctx.IsClaimed(bounds) {
			continue
		}

		boundaries := columnBoundaries(g, start, end, cols)
		if len(boundaries) < minTableColumns {
			continue
		}

		headerIdx, hasHeader := detectHeaderRow(g, start, end, cols)

		var headers []string
		rowsOut := [][]string{}
		for r := start; r < end; r++ {
			if hasHeader && r == start+headerIdx {
				headers = splitByBoundaries(rowText(g, r), boundaries)
				continue
			}
			if isSeparatorLine(g, r) {
				continue
			}
			rowsOut = append(rowsOut, splitByBoundaries(rowText(g, r), boundaries))
		}

		total := len(rowsOut)
		if hasHeader {
			total++
		}
		if total < minTableRows {
			continue
		}

		refID := ctx.Refs.Next("table")
		out = append(out, detect.DetectedElement{
			Element: tst.Element{
				Kind:    tst.KindTable,
				RefID:   refID,
				Bounds:  bounds,
				Headers: headers,
				Rows:    rowsOut,
			},
			Bounds:     bounds,
			Confidence: detect.Medium,
		})
	}
	return out
}

// columnBoundaries finds separator columns (occupancy < height/2), merges
// consecutive ones to their midpoint, and drops boundaries in the last
// 20% of width.
func columnBoundaries(g *grid.Grid, start, end, cols int) []int {
	height := end - start
	occupancy := make([]int, cols)
	for r := start; r < end; r++ {
		row := g.Row(r)
		for c := 0; c < cols && c < len(row); c++ {
			if row[c].Character != ' ' {
				occupancy[c]++
			}
		}
	}

	isSeparator := make([]bool, cols)
	for c := 0; c < cols; c++ {
		isSeparator[c] = occupancy[c] < height/2
	}

	var boundaries []int
	c := 0
	for c < cols {
		if !isSeparator[c] {
			c++
			continue
		}
		runStart := c
		for c < cols && isSeparator[c] {
			c++
		}
		mid := (runStart + c - 1) / 2
		boundaries = append(boundaries, mid)
	}

	cutoff := int(float64(cols) * 0.8)
	var filtered []int
	for _, b := range boundaries {
		if b < cutoff {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func splitByBoundaries(text string, boundaries []int) []string {
	runes := []rune(text)
	var cells []string
	prev := 0
	for _, b := range boundaries {
		if b > len(runes) {
			b = len(runes)
		}
		cells = append(cells, trimSpace(string(runes[prev:b])))
		prev = b
	}
	if prev < len(runes) {
		cells = append(cells, trimSpace(string(runes[prev:])))
	} else {
		cells = append(cells, "")
	}

	if len(cells) > 0 && cells[len(cells)-1] == "" {
		hasPriorContent := false
		for _, c := range cells[:len(cells)-1] {
			if c != "" {
				hasPriorContent = true
				break
			}
		}
		if hasPriorContent {
			cells = cells[:len(cells)-1]
		}
	}
	return cells
}

func isSeparatorLine(g *grid.Grid, r int) bool {
	row := g.Row(r)
	nonSpace, sepLike := 0, 0
	for _, c := range row {
		if c.Character != ' ' {
			nonSpace++
			switch c.Character {
			case '─', '━', '-', '=', '═', '|', '│':
				sepLike++
			}
		}
	}
	return nonSpace > 0 && float64(sepLike)/float64(nonSpace) >= 0.8
}

func detectHeaderRow(g *grid.Grid, start, end, cols int) (int, bool) {
	if end-start == 0 {
		return 0, false
	}
	row0 := g.Row(start)

	bold, nonSpace := 0, 0
	for _, c := range row0 {
		if c.Character != ' ' {
			nonSpace++
			if c.Attrs.Bold {
				bold++
			}
		}
	}
	if nonSpace > 0 && bold*2 > nonSpace {
		return 0, true
	}

	if end-start > 1 && isSeparatorLine(g, start+1) {
		return 0, true
	}

	for _, c := range row0 {
		if c.Character != ' ' && !isDefaultBg(c) {
			return 0, true
		}
	}

	return 0, false
}
