// Package detectors implements the eight concrete element detectors plus a
// supplemented custom-pattern detector.
package detectors

import (
	"strings"
	"unicode"

	"github.com/tstmcp/terminal-mcp/internal/cell"
	"github.com/tstmcp/terminal-mcp/internal/grid"
)

// rowText concatenates the characters of row r, unclipped (no trim).
func rowText(g *grid.Grid, r int) string {
	row := g.Row(r)
	var sb strings.Builder
	for _, c := range row {
		sb.WriteRune(c.Character)
	}
	return sb.String()
}

// rowIsEmpty reports whether every cell in row r is blank/whitespace.
func rowIsEmpty(g *grid.Grid, r int) bool {
	for _, c := range g.Row(r) {
		if !c.IsWhitespace() {
			return false
		}
	}
	return true
}

// nonEmptyRowGroups finds contiguous runs of non-empty rows with length >=
// minHeight, used by both the menu and table detectors as candidate
// regions.
func nonEmptyRowGroups(g *grid.Grid, minHeight int) [][2]int {
	rows := g.Dimensions().Rows
	var groups [][2]int
	start := -1
	for r := 0; r <= rows; r++ {
		empty := r == rows || rowIsEmpty(g, r)
		if !empty && start == -1 {
			start = r
		} else if empty && start != -1 {
			if r-start >= minHeight {
				groups = append(groups, [2]int{start, r})
			}
			start = -1
		}
	}
	return groups
}

func isHorizontal(r rune) bool {
	switch r {
	case '─', '━', '=', '═', '-':
		return true
	}
	return false
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}

// longestReverseRun finds the longest contiguous run of cells carrying
// the reverse attribute (spaces included) that holds at least one
// non-space character within row r, returning (startCol, width); width
// is 0 if none found.
func longestReverseRun(g *grid.Grid, r int) (int, int) {
	row := g.Row(r)
	bestStart, bestLen, bestHasContent := 0, 0, false
	curStart, curLen, curHasContent := -1, 0, false
	flush := func() {
		if curHasContent && curLen > bestLen {
			bestStart, bestLen, bestHasContent = curStart, curLen, true
		}
	}
	for i, c := range row {
		if c.Attrs.Reverse {
			if curStart == -1 {
				curStart = i
			}
			curLen++
			if c.Character != ' ' {
				curHasContent = true
			}
		} else {
			flush()
			curStart, curLen, curHasContent = -1, 0, false
		}
	}
	flush()
	if !bestHasContent {
		return 0, 0
	}
	return bestStart, bestLen
}

func countTrue(vals []bool) int {
	n := 0
	for _, v := range vals {
		if v {
			n++
		}
	}
	return n
}

func isDefaultBg(c cell.Cell) bool {
	return c.Bg == cell.Default
}
