package detectors

import (
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// ButtonDetector recognizes bracket-delimited labels such as "[ OK ]".
type ButtonDetector struct{}

func (ButtonDetector) Name() string  { return "button" }
func (ButtonDetector) Priority() int { return 60 }

type delimPair struct{ open, close string }

var buttonDelims = []delimPair{
	{"[ ", " ]"}, {"[", "]"}, {"< ", " >"}, {"<", ">"}, {"「", "」"},
}

var shellPromptMarkers = []string{"$", "#", "~", "@", ":", "git", "main", "master", "dev"}

func (ButtonDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	rows, cols := g.Dimensions().Rows, g.Dimensions().Cols
	var out []detect.DetectedElement

	for r := 0; r < rows; r++ {
		text := rowText(g, r)
		if isShellPrompt(text) {
			continue
		}

		matches := findButtonMatches(text)
		for _, m := range matches {
			label := strings.TrimSpace(m.label)
			if label == "" || len(label) > 30 || containsDelimiter(label) {
				continue
			}
			bounds := geometry.NewBounds(r, m.startCol, m.endCol-m.startCol, 1)
			if cols > 0 && ctx.IsClaimed(bounds) {
				continue
			}
			refID := ctx.Refs.Next("button")
			out = append(out, detect.DetectedElement{
				Element: tst.Element{
					Kind:   tst.KindButton,
					RefID:  refID,
					Bounds: bounds,
					Label:  label,
				},
				Bounds:     bounds,
				Confidence: detect.High,
			})
		}
	}
	return out
}

type buttonMatch struct {
	label             string
	startCol, endCol int
}

// findButtonMatches scans text for delimiter pairs, preferring earlier
// (leftmost) matches and dropping overlaps.
func findButtonMatches(text string) []buttonMatch {
	runes := []rune(text)
	var matches []buttonMatch
	claimed := make([]bool, len(runes))

	for i := 0; i < len(runes); i++ {
		if claimed[i] {
			continue
		}
		for _, d := range buttonDelims {
			openRunes := []rune(d.open)
			closeRunes := []rune(d.close)
			if !runesAt(runes, i, openRunes) {
				continue
			}
			searchFrom := i + len(openRunes)
			end := indexRunes(runes, closeRunes, searchFrom)
			if end == -1 {
				continue
			}
			labelEnd := end
			fullEnd := end + len(closeRunes)
			overlap := false
			for k := i; k < fullEnd && k < len(claimed); k++ {
				if claimed[k] {
					overlap = true
					break
				}
			}
			if overlap {
				continue
			}
			for k := i; k < fullEnd && k < len(claimed); k++ {
				claimed[k] = true
			}
			matches = append(matches, buttonMatch{
				label:    string(runes[searchFrom:labelEnd]),
				startCol: i,
				endCol:   fullEnd,
			})
			break
		}
	}
	return matches
}

func runesAt(haystack []rune, pos int, needle []rune) bool {
	if pos+len(needle) > len(haystack) {
		return false
	}
	for i, r := range needle {
		if haystack[pos+i] != r {
			return false
		}
	}
	return true
}

func indexRunes(haystack, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(haystack); i++ {
		if runesAt(haystack, i, needle) {
			return i
		}
	}
	return -1
}

func isShellPrompt(text string) bool {
	for _, marker := range shellPromptMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

var delimiterChars = []string{"[", "]", "<", ">", "「", "」"}

func containsDelimiter(s string) bool {
	for _, d := range delimiterChars {
		if strings.Contains(s, d) {
			return true
		}
	}
	return false
}
