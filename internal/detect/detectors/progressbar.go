package detectors

import (
	"regexp"
	"strconv"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// ProgressBarDetector recognizes block bars, bracketed bars, and bare
// percentage text.
type ProgressBarDetector struct{}

func (ProgressBarDetector) Name() string  { return "progress_bar" }
func (ProgressBarDetector) Priority() int { return 60 }

var filledChars = map[rune]bool{'█': true, '▓': true, '▒': true, '#': true, '=': true, '*': true}
var emptyChars = map[rune]bool{'░': true, '·': true, ' ': true, '-': true, '.': true, '▁': true}
var genuineBlockChars = map[rune]bool{'█': true, '▓': true, '▒': true, '#': true, '░': true, '▁': true}
var bracketBarChars = map[rune]bool{'=': true, '#': true, '*': true, ' ': true, '-': true, '.': true}

var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

func (ProgressBarDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	rows := g.Dimensions().Rows
	var out []detect.DetectedElement

	for r := 0; r < rows; r++ {
		text := rowText(g, r)
		runes := []rune(trimRightSpace(text))

		if start, width, filled, ok := findBlockBar(runes); ok {
			bounds := geometry.NewBounds(r, start, width, 1)
			if !ctx.IsClaimed(bounds) {
				out = append(out, progressElement(ctx, bounds, percentOf(filled, width), detect.High))
			}
			continue
		}

		if start, width, filled, ok := findBracketedBar(runes); ok {
			bounds := geometry.NewBounds(r, start, width, 1)
			if !ctx.IsClaimed(bounds) {
				out = append(out, progressElement(ctx, bounds, percentOf(filled, width-2), detect.High))
			}
			continue
		}

		if loc := percentRe.FindStringSubmatchIndex(text); loc != nil {
			valueStr := text[loc[2]:loc[3]]
			value, err := strconv.ParseFloat(valueStr, 64)
			if err != nil {
				continue
			}
			percent := int(value + 0.5)
			if percent > 100 {
				percent = 100
			}
			startCol := len([]rune(text[:loc[0]]))
			endCol := len([]rune(text[:loc[1]]))
			bounds := geometry.NewBounds(r, startCol, endCol-startCol, 1)
			if !ctx.IsClaimed(bounds) {
				out = append(out, progressElement(ctx, bounds, percent, detect.Medium))
			}
		}
	}
	return out
}

func progressElement(ctx *detect.Context, bounds geometry.Bounds, percent int, conf detect.Confidence) detect.DetectedElement {
	refID := ctx.Refs.Next("progress_bar")
	return detect.DetectedElement{
		Element: tst.Element{
			Kind:    tst.KindProgressBar,
			RefID:   refID,
			Bounds:  bounds,
			Percent: percent,
		},
		Bounds:     bounds,
		Confidence: conf,
	}
}

func percentOf(filled, total int) int {
	if total == 0 {
		return 0
	}
	return filled * 100 / total
}

// findBlockBar finds the longest run of filled+empty chars with length
// >=5 containing at least one genuine block char.
func findBlockBar(runes []rune) (start, width, filled int, ok bool) {
	bestStart, bestLen, bestFilled, bestHasBlock := -1, 0, 0, false
	i := 0
	for i < len(runes) {
		if !filledChars[runes[i]] && !emptyChars[runes[i]] {
			i++
			continue
		}
		runStart := i
		runFilled := 0
		hasBlock := false
		for i < len(runes) && (filledChars[runes[i]] || emptyChars[runes[i]]) {
			if filledChars[runes[i]] {
				runFilled++
			}
			if genuineBlockChars[runes[i]] {
				hasBlock = true
			}
			i++
		}
		runLen := i - runStart
		if runLen >= 5 && hasBlock && runLen > bestLen {
			bestStart, bestLen, bestFilled, bestHasBlock = runStart, runLen, runFilled, hasBlock
		}
	}
	if bestStart == -1 || !bestHasBlock {
		return 0, 0, 0, false
	}
	return bestStart, bestLen, bestFilled, true
}

// findBracketedBar finds "[...]" where the interior is drawn from the
// bracket-bar character set and has width >= 5.
func findBracketedBar(runes []rune) (start, width, filled int, ok bool) {
	openIdx := -1
	for i, r := range runes {
		if r == '[' {
			openIdx = i
			break
		}
	}
	if openIdx == -1 {
		return 0, 0, 0, false
	}
	closeIdx := -1
	for i := openIdx + 1; i < len(runes); i++ {
		if runes[i] == ']' {
			closeIdx = i
			break
		}
		if !bracketBarChars[runes[i]] {
			return 0, 0, 0, false
		}
	}
	if closeIdx == -1 {
		return 0, 0, 0, false
	}
	inner := runes[openIdx+1 : closeIdx]
	if len(inner) < 5 {
		return 0, 0, 0, false
	}
	filledN := 0
	for _, r := range inner {
		if r == '=' || r == '#' || r == '*' {
			filledN++
		}
	}
	return openIdx, closeIdx - openIdx + 1, filledN, true
}
