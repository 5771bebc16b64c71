package detectors

import (
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// InputDetector recognizes a focused text-entry field on the cursor's row.
type InputDetector struct{}

func (InputDetector) Name() string  { return "input" }
func (InputDetector) Priority() int { return 70 }

var bracketPairs = map[rune]rune{'[': ']', '(': ')', '{': '}', '│': '│'}

func (InputDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	row := ctx.Cursor.Row
	cols := g.Dimensions().Cols
	if row < 0 || row >= g.Dimensions().Rows {
		return nil
	}
	text := rowText(g, row)

	if value, valueStart, ok := tryLabeledInput(text); ok {
		bounds := geometry.NewBounds(row, 0, cols, 1)
		if ctx.IsClaimed(bounds) {
			return nil
		}
		return []detect.DetectedElement{buildInput(ctx, bounds, value, valueStart, row, detect.High)}
	}

	if value, valueStart, ok := tryBracketedInput(text); ok {
		bounds := geometry.NewBounds(row, 0, cols, 1)
		if ctx.IsClaimed(bounds) {
			return nil
		}
		return []detect.DetectedElement{buildInput(ctx, bounds, value, valueStart, row, detect.Medium)}
	}

	if start, width := longestReverseRun(g, row); width >= 3 {
		bounds := geometry.NewBounds(row, 0, cols, 1)
		if ctx.IsClaimed(bounds) {
			return nil
		}
		value := trimSpace(string([]rune(text)[start : start+width]))
		return []detect.DetectedElement{buildInput(ctx, bounds, value, start, row, detect.High)}
	}

	return nil
}

func tryLabeledInput(text string) (string, int, bool) {
	idx := strings.Index(text, ":")
	if idx == -1 {
		return "", 0, false
	}
	valueStart := idx + 1
	value := trimRightSpace(text[valueStart:])
	return value, valueStart, true
}

func tryBracketedInput(text string) (string, int, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", 0, false
	}
	runes := []rune(trimmed)
	open := runes[0]
	closer, ok := bracketPairs[open]
	if !ok || runes[len(runes)-1] != closer {
		return "", 0, false
	}
	inner := runes[1 : len(runes)-1]
	if len(inner) < 3 {
		return "", 0, false
	}
	valueStart := strings.Index(text, string(open)) + 1
	return trimSpace(string(inner)), valueStart, true
}

func buildInput(ctx *detect.Context, bounds geometry.Bounds, value string, valueStart, row int, conf detect.Confidence) detect.DetectedElement {
	cursorPos := ctx.Cursor.Col - valueStart
	if cursorPos < 0 {
		cursorPos = 0
	}
	if cursorPos > len([]rune(value)) {
		cursorPos = len([]rune(value))
	}
	refID := ctx.Refs.Next("input")
	return detect.DetectedElement{
		Element: tst.Element{
			Kind:      tst.KindInput,
			RefID:     refID,
			Bounds:    bounds,
			Value:     value,
			CursorPos: cursorPos,
		},
		Bounds:     bounds,
		Confidence: conf,
	}
}
