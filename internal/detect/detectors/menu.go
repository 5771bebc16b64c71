package detectors

import (
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// MenuDetector recognizes contiguous row groups forming a selectable list.
type MenuDetector struct{}

func (MenuDetector) Name() string  { return "menu" }
func (MenuDetector) Priority() int { return 80 }

var menuMarkers = []rune{'>', '→', '▶', '•', '*', '►'}

func (MenuDetector) Detect(g *grid.Grid, ctx *detect.Context) []detect.DetectedElement {
	cols := g.Dimensions().Cols
	var out []detect.DetectedElement

	for _, group := range nonEmptyRowGroups(g, 2) {
		start, end := group[0], group[1]
		bounds := geometry.NewBounds(start, 0, cols, end-start)
		if ctx.IsClaimed(bounds) {
			continue
		}

		items, selected, ok := tryReverseVideoMenu(g, start, end)
		if !ok {
			items, selected, ok = tryPrefixMarkerMenu(g, start, end)
		}
		if !ok {
			items, selected, ok = tryCursorWithinMenu(g, start, end, ctx.Cursor)
		}
		if !ok || len(items) < 2 {
			continue
		}

		refID := ctx.Refs.Next("menu")
		menuItems := make([]tst.MenuItem, len(items))
		for i, text := range items {
			menuItems[i] = tst.MenuItem{
				RefID:    ctx.Refs.Next("item"),
				Text:     text,
				Selected: i == selected,
			}
		}
		out = append(out, detect.DetectedElement{
			Element: tst.Element{
				Kind:     tst.KindMenu,
				RefID:    refID,
				Bounds:   bounds,
				Items:    menuItems,
				Selected: selected,
			},
			Bounds:     bounds,
			Confidence: detect.High,
		})
	}
	return out
}

func tryReverseVideoMenu(g *grid.Grid, start, end int) ([]string, int, bool) {
	selected := -1
	for r := start; r < end; r++ {
		row := g.Row(r)
		nonSpace, reverse := 0, 0
		for _, c := range row {
			if c.Character != ' ' {
				nonSpace++
				if c.Attrs.Reverse {
					reverse++
				}
			}
		}
		if nonSpace > 0 && reverse*2 > nonSpace && selected == -1 {
			selected = r - start
		}
	}
	if selected == -1 {
		return nil, 0, false
	}
	items := make([]string, end-start)
	for r := start; r < end; r++ {
		items[r-start] = trimRightSpace(rowText(g, r))
	}
	return items, selected, true
}

func tryPrefixMarkerMenu(g *grid.Grid, start, end int) ([]string, int, bool) {
	selected := -1
	items := make([]string, 0, end-start)
	for r := start; r < end; r++ {
		text := rowText(g, r)
		trimmed := strings.TrimLeft(text, " ")
		marked := false
		for _, m := range menuMarkers {
			if strings.HasPrefix(trimmed, string(m)) {
				marked = true
				if selected == -1 {
					selected = r - start
				}
				trimmed = strings.TrimLeft(trimmed[len(string(m)):], " ")
				break
			}
		}
		_ = marked
		items = append(items, trimRightSpace(trimmed))
	}
	if selected == -1 {
		return nil, 0, false
	}
	return items, selected, true
}

func tryCursorWithinMenu(g *grid.Grid, start, end int, cursor geometry.Position) ([]string, int, bool) {
	if cursor.Row < start || cursor.Row >= end {
		return nil, 0, false
	}
	items := make([]string, end-start)
	for r := start; r < end; r++ {
		items[r-start] = trimRightSpace(rowText(g, r))
	}
	return items, cursor.Row - start, true
}
