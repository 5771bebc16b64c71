// Package manager implements the bounded session registry and its
// create/get/list/close operations (§4.10), guarded by a single
// reader-writer lock per §5: reads for get/list run concurrently, writes
// for create/close are exclusive, and the registry lock is never held
// while calling into a session.
package manager

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tstmcp/terminal-mcp/internal/config"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/ptyio"
	"github.com/tstmcp/terminal-mcp/internal/session"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
	"github.com/tstmcp/terminal-mcp/internal/visualterm"
)

// Options tunes a Manager's bounds and session defaults.
type Options struct {
	MaxSessions  int
	DefaultDims  geometry.Dimensions
	Security     config.SecuritySettings
	PreferredTTY string // requested visual terminal emulator name, if any
}

// DefaultOptions mirrors the §4.10 defaults: max 10 sessions, 24x80.
func DefaultOptions() Options {
	return Options{MaxSessions: 10, DefaultDims: geometry.DefaultDimensions}
}

// Manager is the process-wide bounded map of id -> *session.Session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	opts     Options
	registry *visualterm.Registry
}

// New builds an empty Manager.
func New(opts Options) *Manager {
	return &Manager{
		sessions: make(map[string]*session.Session),
		opts:     opts,
		registry: visualterm.DefaultRegistry(),
	}
}

// CreateParams are the inputs to Create, mirroring session.create's tool
// parameters (§6.1).
type CreateParams struct {
	Command  string
	Args     []string
	Dims     *geometry.Dimensions
	Cwd      string
	Env      map[string]string
	Visual   bool
	Terminal string // preferred_terminal
}

// Create spawns a new session and registers it, failing with
// session-limit-reached when the registry is already at capacity, or
// command-not-allowed when the security policy rejects the command.
func (m *Manager) Create(p CreateParams) (*session.Session, error) {
	if !m.opts.Security.IsCommandAllowed(p.Command) {
		return nil, txerr.New(txerr.KindCommandNotAllowed, "command %q is not in the allowed list", p.Command)
	}

	dims := m.opts.DefaultDims
	if p.Dims != nil {
		dims = *p.Dims
	}
	if dims.Rows == 0 || dims.Cols == 0 {
		return nil, txerr.New(txerr.KindInvalidDimensions, "rows and cols must be > 0")
	}

	m.mu.Lock()
	if len(m.sessions) >= m.opts.MaxSessions {
		m.mu.Unlock()
		return nil, txerr.New(txerr.KindSessionLimitReached, "at most %d sessions allowed", m.opts.MaxSessions)
	}
	m.mu.Unlock()

	sess, err := m.spawn(p, dims)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if len(m.sessions) >= m.opts.MaxSessions {
		m.mu.Unlock()
		_ = sess.Terminate()
		return nil, txerr.New(txerr.KindSessionLimitReached, "at most %d sessions allowed", m.opts.MaxSessions)
	}
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	return sess, nil
}

// spawn builds the PTY handle (direct or, for visual mode, a tmux
// session plus an attempted visible terminal window) and wraps it into a
// Session. Spawn failures surface as pty-error; visual-window spawn
// failures fall back to headless silently with a log warning (§6.4).
func (m *Manager) spawn(p CreateParams, dims geometry.Dimensions) (*session.Session, error) {
	if !p.Visual {
		pty, err := ptyio.SpawnDirect(p.Command, p.Args, dims, p.Cwd)
		if err != nil {
			return nil, err
		}
		return session.New(p.Command, p.Args, dims, pty, session.ModeHeadless, nil), nil
	}

	sessionName := "tstmcp-" + randomSuffix()
	tmux, err := ptyio.SpawnTmux(sessionName, p.Command, p.Args, dims, p.Cwd)
	if err != nil {
		return nil, err
	}

	visual, spawnErr := m.registry.Spawn(p.Terminal, "tmux", []string{"attach-session", "-t", sessionName}, dims)
	if spawnErr != nil {
		slog.Warn("visual terminal spawn failed; continuing without a window", "session", sessionName, "error", spawnErr)
		// Visual window spawn is best-effort; the tmux session itself
		// still backs the handle, so the session remains fully usable
		// headless-over-multiplexer even when no visible window appears.
		return session.New(p.Command, p.Args, dims, tmux, session.ModeVisual, nil), nil
	}

	vh := &session.VisualHandle{PID: visual.PID, TerminalName: visual.TerminalName, WindowID: visual.WindowID}
	return session.New(p.Command, p.Args, dims, tmux, session.ModeVisual, vh), nil
}

func randomSuffix() string {
	return time.Now().Format("150405.000000000") + "-" + itoa(os.Getpid())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Get looks up a session by id, failing with session-not-found.
func (m *Manager) Get(id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, txerr.New(txerr.KindSessionNotFound, "no session %q", id)
	}
	return sess, nil
}

// Summary is one row of List's output (§6.1's session.list).
type Summary struct {
	ID        string
	Command   string
	Status    session.Status
	CreatedAt time.Time
}

// List returns a point-in-time snapshot of every registered session.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	ids := make([]*session.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		ids = append(ids, s)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(ids))
	for _, s := range ids {
		out = append(out, Summary{ID: s.ID(), Command: s.Command(), Status: s.Status(), CreatedAt: s.CreatedAt()})
	}
	return out
}

// Close terminates the session then removes it from the registry. The
// registry lock is dropped before calling Terminate, so a slow PTY kill
// never blocks concurrent List/Get calls.
func (m *Manager) Close(id string) error {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return txerr.New(txerr.KindSessionNotFound, "no session %q", id)
	}

	err := sess.Terminate()

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	return err
}

// CloseAll best-effort closes every registered session, returning the
// first error encountered (if any) after attempting the rest.
func (m *Manager) CloseAll() error {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	var firstErr error
	for _, id := range ids {
		if err := m.Close(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
