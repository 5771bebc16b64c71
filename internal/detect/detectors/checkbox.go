package detectors

import (
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// CheckboxDetector recognizes "[x] label" / "(o) label" triplets.
type CheckboxDetector struct{}

func (CheckboxDetector) Name() string  { return "checkbox" }
func (CheckboxDetector) Priority() int { return 60 }

var squareChecked = map[rune]bool{'x': true, 'X': true, '*': true, '✓': true, '✔': true}
var parenChecked = map[rune]bool{'*': true, 'o': true, 'O': true, '●': true, '◉': true}

func (CheckboxDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	rows := g.Dimensions().Rows
	var out []detect.DetectedElement

	for r := 0; r < rows; r++ {
		runes := []rune(rowText(g, r))
		for i := 0; i+2 < len(runes); i++ {
			var open, close rune
			var checkedSet map[rune]bool
			switch runes[i] {
			case '[':
				open, close, checkedSet = '[', ']', squareChecked
			case '(':
				open, close, checkedSet = '(', ')', parenChecked
			default:
				continue
			}
			if runes[i+2] != close {
				continue
			}
			marker := runes[i+1]
			checked := checkedSet[marker]
			if !checked && marker != ' ' {
				continue
			}
			_ = open

			bounds := geometry.NewBounds(r, i, 3, 1)
			if ctx.IsClaimed(bounds) {
				continue
			}

			label := extractCheckboxLabel(runes, i+3)
			refID := ctx.Refs.Next("checkbox")
			out = append(out, detect.DetectedElement{
				Element: tst.Element{
					Kind:    tst.KindCheckbox,
					RefID:   refID,
					Bounds:  bounds,
					Label:   label,
					Checked: checked,
				},
				Bounds:     bounds,
				Confidence: detect.High,
			})
		}
	}
	return out
}

func extractCheckboxLabel(runes []rune, from int) string {
	start := from
	for start < len(runes) && runes[start] == ' ' {
		start++
	}
	var sb strings.Builder
	for i := start; i < len(runes) && sb.Len() < 60; i++ {
		r := runes[i]
		if r == '[' || r == '(' || r == '\n' || r == '\r' {
			break
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}
