package session

import (
	"testing"
	"time"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/detect/detectors"
	"github.com/tstmcp/terminal-mcp/internal/key"
	"github.com/tstmcp/terminal-mcp/internal/tst"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

func TestClickNavigatesPipelineDetectedMenuItem(t *testing.T) {
	sess := newCatSession(t)

	menu := "> Option One\r\n  Option Two\r\n  Option Three\r\n"
	if err := sess.Write([]byte(menu)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	waitForText(t, sess, "Option Three")

	pipeline := detect.NewPipeline(detectors.MenuDetector{})
	cfg := DefaultConfig()
	cfg.IdleTimeout = 200 * time.Millisecond

	snap, err := sess.Snapshot(pipeline, cfg)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	var menuEl *tst.Element
	for i := range snap.Elements {
		if snap.Elements[i].Kind == tst.KindMenu {
			menuEl = &snap.Elements[i]
			break
		}
	}
	if menuEl == nil {
		t.Fatalf("expected a detected menu element, got %+v", snap.Elements)
	}
	if len(menuEl.Items) != 3 {
		t.Fatalf("expected 3 menu items, got %+v", menuEl.Items)
	}
	targetRef := menuEl.Items[2].RefID
	if targetRef == "" {
		t.Fatalf("expected a non-empty ref id for the target item: %+v", menuEl.Items[2])
	}

	keys, err := sess.Click(targetRef, pipeline, cfg, 0)
	if err != nil {
		t.Fatalf("Click: %v", err)
	}

	want := []key.Key{key.Of(key.NameDown), key.Of(key.NameDown), key.Of(key.NameEnter)}
	if len(keys) != len(want) {
		t.Fatalf("keys = %+v, want %+v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %+v, want %+v", i, keys[i], want[i])
		}
	}
}

func TestClickUnknownRefReturnsElementNotFound(t *testing.T) {
	sess := newCatSession(t)

	pipeline := detect.NewPipeline(detectors.MenuDetector{})
	cfg := DefaultConfig()
	cfg.IdleTimeout = 50 * time.Millisecond

	if _, err := sess.Click("item_0", pipeline, cfg, 0); txerr.KindOf(err) != txerr.KindElementNotFound {
		t.Errorf("expected element-not-found for a ref id that matches no detected menu, got %v", err)
	}
}
