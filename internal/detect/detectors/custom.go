package detectors

import (
	"regexp"
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// CustomPatternDetector emits a Text element per row match of a
// user-configured regex (detection.custom_patterns in the server config).
// It runs below StatusBar so operator-supplied patterns never shadow the
// built-in widget vocabulary.
type CustomPatternDetector struct {
	Patterns []*regexp.Regexp
}

func (CustomPatternDetector) Name() string  { return "custom_pattern" }
func (CustomPatternDetector) Priority() int { return 40 }

func (d CustomPatternDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	rows, cols := g.Dimensions().Rows, g.Dimensions().Cols
	var out []detect.DetectedElement

	for r := 0; r < rows; r++ {
		text := rowText(g, r)
		bounds := geometry.NewBounds(r, 0, cols, 1)
		if ctx.IsClaimed(bounds) {
			continue
		}
		for _, pat := range d.Patterns {
			m := pat.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			content := strings.TrimSpace(m[0])
			if len(m) > 1 {
				content = strings.TrimSpace(strings.Join(m[1:], " "))
			}
			if content == "" {
				continue
			}
			refID := ctx.Refs.Next("text")
			out = append(out, detect.DetectedElement{
				Element: tst.Element{
					Kind:    tst.KindText,
					RefID:   refID,
					Bounds:  bounds,
					Content: content,
				},
				Bounds:     bounds,
				Confidence: detect.Medium,
			})
			break
		}
	}
	return out
}
