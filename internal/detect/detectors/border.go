package detectors

import (
	"sort"
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// boxCharset is one of the five recognized box-drawing vocabularies.
type boxCharset struct {
	topLeft, topRight, bottomLeft, bottomRight rune
	horizontal, vertical                       rune
}

var boxCharsets = []boxCharset{
	{'┌', '┐', '└', '┘', '─', '│'}, // Light
	{'┏', '┓', '┗', '┛', '━', '┃'}, // Heavy
	{'╔', '╗', '╚', '╝', '═', '║'}, // Double
	{'╭', '╮', '╰', '╯', '─', '│'}, // Rounded
	{'+', '+', '+', '+', '-', '|'}, // ASCII
}

// BorderDetector recognizes bordered regions of five box-drawing styles.
type BorderDetector struct{}

func (BorderDetector) Name() string  { return "border" }
func (BorderDetector) Priority() int { return 100 }

type borderCandidate struct {
	bounds geometry.Bounds
	title  *string
}

func (BorderDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	rows, cols := g.Dimensions().Rows, g.Dimensions().Cols
	var candidates []borderCandidate

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell0, _ := g.Cell(r, c)
			for _, set := range boxCharsets {
				if cell0.Character != set.topLeft {
					continue
				}
				if cand, ok := traceBorder(g, r, c, set); ok {
					candidates = append(candidates, cand)
				}
			}
		}
	}

	candidates = filterNestedBorders(candidates)

	var out []detect.DetectedElement
	for _, cand := range candidates {
		if ctx.IsClaimed(cand.bounds) {
			continue
		}
		refID := ctx.Refs.Next("border")
		out = append(out, detect.DetectedElement{
			Element: tst.Element{
				Kind:     tst.KindBorder,
				RefID:    refID,
				Bounds:   cand.bounds,
				Title:    cand.title,
				Children: []string{},
			},
			Bounds:     cand.bounds,
			Confidence: detect.High,
		})
	}
	return out
}

// traceBorder attempts to trace a complete rectangle starting at a
// top-left corner found at (row,col).
func traceBorder(g *grid.Grid, row, col int, set boxCharset) (borderCandidate, bool) {
	rows, cols := g.Dimensions().Rows, g.Dimensions().Cols

	topRightCol := -1
	for c := col + 1; c < cols; c++ {
		cellC, _ := g.Cell(row, c)
		if cellC.Character == set.topRight {
			topRightCol = c
			break
		}
	}
	if topRightCol == -1 {
		return borderCandidate{}, false
	}

	bottomLeftRow := -1
	for r := row + 1; r < rows; r++ {
		cellC, _ := g.Cell(r, col)
		if cellC.Character == set.bottomLeft {
			bottomLeftRow = r
			break
		}
		if cellC.Character != set.vertical && cellC.Character != ' ' {
			return borderCandidate{}, false
		}
	}
	if bottomLeftRow == -1 {
		return borderCandidate{}, false
	}

	brCell, ok := g.Cell(bottomLeftRow, topRightCol)
	if !ok || brCell.Character != set.bottomRight {
		return borderCandidate{}, false
	}

	bounds := geometry.NewBounds(row, col, topRightCol-col+1, bottomLeftRow-row+1)
	title := extractTitle(g, row, col, topRightCol, set)
	return borderCandidate{bounds: bounds, title: title}, true
}

// extractTitle walks the top row between the corners, skipping leading
// horizontal runs, accumulating the first non-horizontal/non-space run as
// the title.
func extractTitle(g *grid.Grid, row, leftCol, rightCol int, set boxCharset) *string {
	var sb strings.Builder
	accumulating := false
	for c := leftCol + 1; c < rightCol; c++ {
		cellC, _ := g.Cell(row, c)
		ch := cellC.Character
		horiz := ch == set.horizontal
		if !accumulating {
			if horiz || ch == ' ' {
				continue
			}
			accumulating = true
			sb.WriteRune(ch)
			continue
		}
		if horiz {
			break
		}
		sb.WriteRune(ch)
	}
	title := strings.TrimSpace(sb.String())
	if title == "" {
		return nil
	}
	return &title
}

// filterNestedBorders keeps a border only if it is not fully contained in
// another already-kept (larger) border, sorting by area descending first.
func filterNestedBorders(cands []borderCandidate) []borderCandidate {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].bounds.Area() > cands[j].bounds.Area()
	})
	var kept []borderCandidate
	for _, cand := range cands {
		contained := false
		for _, k := range kept {
			if k.bounds.ContainsBounds(cand.bounds) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, cand)
		}
	}
	return kept
}
