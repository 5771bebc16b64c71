package session

import (
	"regexp"
	"time"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/tst"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// WaitCondition is one or more of text/element-type/idle, per §4.8.
type WaitCondition struct {
	Text         string // empty means unset
	ElementType  string // empty means unset
	Gone         bool
	Idle         bool
	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultWaitCondition mirrors WaitCondition::default().
func DefaultWaitCondition() WaitCondition {
	return WaitCondition{
		Timeout:      30 * time.Second,
		PollInterval: 100 * time.Millisecond,
	}
}

// WaitResult is the outcome of WaitFor.
type WaitResult struct {
	ConditionMet bool
	WaitedMs     int64
	Snapshot     tst.TerminalStateTree
}

// WaitFor repeatedly checks condition against fresh snapshots (or, for
// idle, against raw process_output activity) until it's satisfied or the
// condition's timeout elapses (§4.8).
func (s *Session) WaitFor(condition WaitCondition, pipeline *detect.Pipeline, cfg Config) (WaitResult, error) {
	start := time.Now()

	if condition.Idle {
		lastActivity := time.Now()
		for {
			elapsed := time.Since(start)
			if elapsed >= condition.Timeout {
				snap, err := s.Snapshot(pipeline, cfg)
				if err != nil {
					return WaitResult{}, err
				}
				return WaitResult{ConditionMet: false, WaitedMs: elapsed.Milliseconds(), Snapshot: snap}, nil
			}

			n, err := s.ProcessOutput()
			if err != nil {
				return WaitResult{}, err
			}

			if n > 0 {
				lastActivity = time.Now()
			} else if time.Since(lastActivity) >= cfg.IdleThreshold {
				snap, err := s.Snapshot(pipeline, cfg)
				if err != nil {
					return WaitResult{}, err
				}
				return WaitResult{ConditionMet: true, WaitedMs: elapsed.Milliseconds(), Snapshot: snap}, nil
			}

			time.Sleep(10 * time.Millisecond)
		}
	}

	for {
		elapsed := time.Since(start)
		if elapsed >= condition.Timeout {
			snap, err := s.Snapshot(pipeline, cfg)
			if err != nil {
				return WaitResult{}, err
			}
			return WaitResult{ConditionMet: false, WaitedMs: elapsed.Milliseconds(), Snapshot: snap}, nil
		}

		snap, err := s.Snapshot(pipeline, cfg)
		if err != nil {
			return WaitResult{}, err
		}

		met, err := checkCondition(snap, condition)
		if err != nil {
			return WaitResult{}, err
		}
		if met {
			return WaitResult{ConditionMet: true, WaitedMs: elapsed.Milliseconds(), Snapshot: snap}, nil
		}

		time.Sleep(condition.PollInterval)
	}
}

// checkCondition evaluates the non-idle parts of a WaitCondition against
// a snapshot. Text takes precedence over element-type if both are set,
// mirroring wait.rs's check_condition.
func checkCondition(snap tst.TerminalStateTree, condition WaitCondition) (bool, error) {
	if condition.Text != "" {
		re, err := regexp.Compile(condition.Text)
		if err != nil {
			return false, txerr.Wrap(txerr.KindInvalidInput, err, "invalid regex %q", condition.Text)
		}
		found := re.MatchString(snap.RawText)
		if condition.Gone {
			return !found, nil
		}
		return found, nil
	}

	if condition.ElementType != "" {
		found := false
		for _, e := range snap.Elements {
			if e.TypeName() == condition.ElementType {
				found = true
				break
			}
		}
		if condition.Gone {
			return !found, nil
		}
		return found, nil
	}

	return false, nil
}
