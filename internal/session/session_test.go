package session

import (
	"strings"
	"testing"
	"time"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/detect/detectors"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/ptyio"
)

func newCatSession(t *testing.T) *Session {
	t.Helper()
	dims := geometry.Dimensions{Rows: 10, Cols: 40}
	pty, err := ptyio.SpawnDirect("cat", nil, dims, "")
	if err != nil {
		t.Fatalf("SpawnDirect: %v", err)
	}
	sess := New("cat", nil, dims, pty, ModeHeadless, nil)
	t.Cleanup(func() { sess.Terminate() })
	return sess
}

func TestWriteAndReadOutput(t *testing.T) {
	sess := newCatSession(t)

	if err := sess.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	var text string
	for time.Now().Before(deadline) {
		var err error
		text, _, _, err = sess.ReadOutput(false)
		if err != nil {
			t.Fatalf("ReadOutput: %v", err)
		}
		if strings.Contains(text, "hello") {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if !strings.Contains(text, "hello") {
		t.Fatalf("expected output to contain 'hello', got %q", text)
	}
}

func TestReadOutputSinceLastRead(t *testing.T) {
	sess := newCatSession(t)

	if err := sess.Write([]byte("first\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	waitForText(t, sess, "first")

	if _, _, _, err := sess.ReadOutput(true); err != nil {
		t.Fatalf("ReadOutput: %v", err)
	}

	if err := sess.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	var n int
	for time.Now().Before(deadline) {
		var err error
		_, n, _, err = sess.ReadOutput(true)
		if err != nil {
			t.Fatalf("ReadOutput: %v", err)
		}
		if n > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if n == 0 {
		t.Fatal("expected bytesRead > 0 for the second write")
	}
}

func waitForText(t *testing.T, sess *Session, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		text, _, _, err := sess.ReadOutput(false)
		if err != nil {
			t.Fatalf("ReadOutput: %v", err)
		}
		if strings.Contains(text, want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q", want)
}

func TestResizeUpdatesGridDimensions(t *testing.T) {
	sess := newCatSession(t)

	if err := sess.Resize(geometry.Dimensions{Rows: 20, Cols: 60}); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	sess.parserMu.Lock()
	dims := sess.parser.Grid().Dimensions()
	sess.parserMu.Unlock()

	if dims.Rows != 20 || dims.Cols != 60 {
		t.Errorf("grid dims = %+v, want 20x60", dims)
	}
}

func TestTerminateMarksStatus(t *testing.T) {
	sess := newCatSession(t)
	if err := sess.Terminate(); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if sess.Status() != StatusTerminated {
		t.Errorf("Status() = %v, want terminated", sess.Status())
	}
}

func TestSnapshotReturnsSessionID(t *testing.T) {
	sess := newCatSession(t)
	pipeline := detect.NewPipeline(detectors.StatusBarDetector{})
	cfg := DefaultConfig()
	cfg.IdleTimeout = 200 * time.Millisecond

	snap, err := sess.Snapshot(pipeline, cfg)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.SessionID != sess.ID() {
		t.Errorf("SessionID = %q, want %q", snap.SessionID, sess.ID())
	}
	if snap.Dimensions.Rows != 10 || snap.Dimensions.Cols != 40 {
		t.Errorf("Dimensions = %+v, want 10x40", snap.Dimensions)
	}
}

func TestPressKeyEnter(t *testing.T) {
	sess := newCatSession(t)
	if _, err := sess.PressKey("Enter"); err != nil {
		t.Fatalf("PressKey: %v", err)
	}
}

func TestTypeTextReturnsCharCount(t *testing.T) {
	sess := newCatSession(t)
	n, err := sess.TypeText("hi", 0)
	if err != nil {
		t.Fatalf("TypeText: %v", err)
	}
	if n != 2 {
		t.Errorf("TypeText returned %d, want 2", n)
	}
}
