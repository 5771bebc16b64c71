package session

import (
	"strings"

	"github.com/tstmcp/terminal-mcp/internal/key"
	"github.com/tstmcp/terminal-mcp/internal/tst"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// computeNavigation is the navigation computer (§4.9): given a snapshot
// and a target ref id, returns the ordered keys needed to reach and
// activate it.
func computeNavigation(snap tst.TerminalStateTree, targetRef string) ([]key.Key, error) {
	if strings.HasPrefix(targetRef, "item_") {
		for _, e := range snap.Elements {
			if e.Kind != tst.KindMenu {
				continue
			}
			idx := indexOfItem(e.Items, targetRef)
			if idx < 0 {
				continue
			}
			return navigateMenu(e.Selected, idx), nil
		}
		return nil, txerr.New(txerr.KindElementNotFound, "no menu contains item %q", targetRef)
	}

	el, ok := snap.FindElement(targetRef)
	if !ok {
		return nil, txerr.New(txerr.KindElementNotFound, "%s", targetRef)
	}

	switch el.Kind {
	case tst.KindButton:
		return []key.Key{key.Of(key.NameEnter)}, nil
	case tst.KindCheckbox:
		return []key.Key{key.Of(key.NameSpace)}, nil
	default:
		return nil, txerr.New(txerr.KindInvalidInput, "element type %q is not clickable", el.TypeName())
	}
}

func indexOfItem(items []tst.MenuItem, refID string) int {
	for i, it := range items {
		if it.RefID == refID {
			return i
		}
	}
	return -1
}

func navigateMenu(currentSelected, targetIdx int) []key.Key {
	diff := targetIdx - currentSelected
	var keys []key.Key
	if diff > 0 {
		for i := 0; i < diff; i++ {
			keys = append(keys, key.Of(key.NameDown))
		}
	} else if diff < 0 {
		for i := 0; i < -diff; i++ {
			keys = append(keys, key.Of(key.NameUp))
		}
	}
	keys = append(keys, key.Of(key.NameEnter))
	return keys
}
