package detectors

import (
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// StatusBarDetector recognizes a help/status line on the last grid row.
type StatusBarDetector struct{}

func (StatusBarDetector) Name() string  { return "status_bar" }
func (StatusBarDetector) Priority() int { return 50 }

var statusBarMarkers = []string{
	"Press", "press", "ESC", "Esc", "q to quit", "Q to quit",
	"Help:", "Status:", "|", "│", "Ctrl+", "Alt+",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10",
}

func (StatusBarDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	rows, cols := g.Dimensions().Rows, g.Dimensions().Cols
	lastRow := rows - 1
	bounds := geometry.NewBounds(lastRow, 0, cols, 1)
	if ctx.IsClaimed(bounds) {
		return nil
	}

	text := rowText(g, lastRow)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	matched := false
	for _, m := range statusBarMarkers {
		if strings.Contains(trimmed, m) {
			matched = true
			break
		}
	}
	if !matched {
		row := g.Row(lastRow)
		nonSpace, nonDefaultBg := 0, 0
		for _, c := range row {
			if c.Character != ' ' {
				nonSpace++
				if !isDefaultBg(c) {
					nonDefaultBg++
				}
			}
		}
		if nonSpace > 0 && nonDefaultBg*2 > nonSpace {
			matched = true
		}
	}
	if !matched {
		return nil
	}

	refID := ctx.Refs.Next("status_bar")
	return []detect.DetectedElement{{
		Element: tst.Element{
			Kind:    tst.KindStatusBar,
			RefID:   refID,
			Bounds:  bounds,
			Content: trimmed,
		},
		Bounds:     bounds,
		Confidence: detect.Medium,
	}}
}
