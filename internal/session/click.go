package session

import (
	"time"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/key"
)

const defaultInterKeyDelayMs = 50

// Click takes a snapshot, runs the navigation computer against targetRef,
// then writes each returned key's byte encoding to the PTY, sleeping
// interKeyDelayMs between keys (default 50). Returns the ordered keys
// sent (§4.9).
func (s *Session) Click(targetRef string, pipeline *detect.Pipeline, cfg Config, interKeyDelayMs int) ([]key.Key, error) {
	if interKeyDelayMs <= 0 {
		interKeyDelayMs = defaultInterKeyDelayMs
	}

	snap, err := s.Snapshot(pipeline, cfg)
	if err != nil {
		return nil, err
	}

	keys, err := computeNavigation(snap, targetRef)
	if err != nil {
		return nil, err
	}

	for i, k := range keys {
		if err := s.Write(key.Encode(k)); err != nil {
			return nil, err
		}
		if i < len(keys)-1 {
			time.Sleep(time.Duration(interKeyDelayMs) * time.Millisecond)
		}
	}

	return keys, nil
}
