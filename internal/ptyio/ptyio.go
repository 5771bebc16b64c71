// Package ptyio implements the PTY handle contract behind two backends: a
// direct pseudo-terminal (creack/pty) and a tmux-multiplexer-backed handle
// used by visual-mode sessions.
package ptyio

import "github.com/tstmcp/terminal-mcp/internal/geometry"

// Handle is the surface both PTY backends present. Higher layers are
// unaware which backend they're driving except through IsTmuxMode, which
// the session's snapshot flow consults to decide whether to force a fresh
// capture before running the detection pipeline.
type Handle interface {
	// Read returns whatever bytes are currently available, possibly
	// none; it never blocks.
	Read() ([]byte, error)
	// Write sends bytes to the child/pane.
	Write(data []byte) error
	// Resize updates both the kernel-visible (or multiplexer) size and
	// the stored dimensions.
	Resize(dims geometry.Dimensions) error
	// IsAlive probes liveness without reaping/blocking.
	IsAlive() bool
	// Kill terminates the underlying process or multiplexer session.
	Kill() error
	// IsTmuxMode is the one backend distinction higher layers may
	// consult.
	IsTmuxMode() bool
}

// CacheInvalidator is implemented by multiplexer-backed handles; the
// snapshot flow type-asserts for it to force one fresh capture before
// running the detection pipeline (spec behavior: "invalidate the
// multiplexer read cache").
type CacheInvalidator interface {
	InvalidateCache()
}
