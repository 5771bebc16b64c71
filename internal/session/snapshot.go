package session

import (
	"time"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/ptyio"
	"github.com/tstmcp/terminal-mcp/internal/tst"
)

// Config tunes the idle-wait and detection behavior of snapshot/wait
// operations (§4.7/§4.8, snapshot.rs's SnapshotConfig).
type Config struct {
	// IdleTimeout bounds how long wait-for-idle will spin before giving up.
	IdleTimeout time.Duration
	// IdleThreshold is how long output must be quiet before "idle".
	IdleThreshold time.Duration
	// MinConfidence optionally filters assembled elements.
	MinConfidence detect.Confidence
}

// DefaultConfig mirrors SnapshotConfig::default().
func DefaultConfig() Config {
	return Config{
		IdleTimeout:   5 * time.Second,
		IdleThreshold: 100 * time.Millisecond,
		MinConfidence: detect.Low,
	}
}

// Snapshot waits for idle, optionally forces a fresh multiplexer capture,
// runs the detection pipeline, and assembles a TerminalStateTree (§4.7).
func (s *Session) Snapshot(pipeline *detect.Pipeline, cfg Config) (tst.TerminalStateTree, error) {
	if err := s.waitForIdle(cfg); err != nil {
		return tst.TerminalStateTree{}, err
	}

	s.ptyMu.Lock()
	isTmux := s.pty.IsTmuxMode()
	invalidator, canInvalidate := s.pty.(ptyio.CacheInvalidator)
	s.ptyMu.Unlock()

	if isTmux {
		s.parserMu.Lock()
		s.parser.Grid().Clear()
		s.parserMu.Unlock()

		if canInvalidate {
			invalidator.InvalidateCache()
		}

		if _, err := s.ProcessOutput(); err != nil {
			return tst.TerminalStateTree{}, err
		}
	}

	s.parserMu.Lock()
	g := s.parser.Grid()
	cursor := g.Cursor().Position
	dims := g.Dimensions()
	rawText := g.ToPlainText()
	detected := pipeline.Detect(g, cursor, nil)
	s.parserMu.Unlock()

	return tst.AssembleWithConfidence(s.id, dims, cursor, rawText, detected, cfg.MinConfidence), nil
}

// waitForIdle repeatedly calls ProcessOutput until no new bytes arrive
// for cfg.IdleThreshold, or cfg.IdleTimeout elapses (§4.8 idle mode).
func (s *Session) waitForIdle(cfg Config) error {
	start := time.Now()
	lastActivity := time.Now()

	for {
		if time.Since(start) > cfg.IdleTimeout {
			return nil
		}

		n, err := s.ProcessOutput()
		if err != nil {
			return err
		}

		if n > 0 {
			lastActivity = time.Now()
		} else if time.Since(lastActivity) >= cfg.IdleThreshold {
			return nil
		}

		time.Sleep(10 * time.Millisecond)
	}
}
