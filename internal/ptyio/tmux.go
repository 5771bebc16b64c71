package ptyio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// cursorHomeEscape is prepended to every capture delivered to the parser,
// per the spec's deterministic-framing contract for multiplexer reads.
var cursorHomeEscape = []byte{0x1B, 0x5B, 0x48}

// Tmux is a multiplexer-backed handle: one tmux session per Session,
// captured on demand rather than streamed. Grounded on cmd/vee/tmux.go's
// tmuxCmd/tmuxRun/shelljoin helpers, generalized from the teacher's
// single shared "vee" session to one session per handle (named by the
// caller).
type Tmux struct {
	mu          sync.Mutex
	socketPath  string
	sessionName string
	dims        geometry.Dimensions
	lastCapture string
	forceFresh  bool
	killed      bool
}

// runtimeDir returns $XDG_RUNTIME_DIR/tstmcp, falling back to
// /run/user/<uid>/tstmcp.
func runtimeDir() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = fmt.Sprintf("/run/user/%d", os.Getuid())
	}
	return filepath.Join(dir, "tstmcp")
}

func socketPath() string {
	return filepath.Join(runtimeDir(), "tmux.sock")
}

// SpawnTmux creates a new detached tmux session named sessionName running
// command, sized to dims.
func SpawnTmux(sessionName, command string, args []string, dims geometry.Dimensions, dir string) (*Tmux, error) {
	if err := os.MkdirAll(runtimeDir(), 0700); err != nil {
		return nil, txerr.Wrap(txerr.KindPTYError, err, "create tmux runtime dir")
	}

	t := &Tmux{socketPath: socketPath(), sessionName: sessionName, dims: dims}

	cmdLine := shelljoin(command)
	for _, a := range args {
		cmdLine += " " + shelljoin(a)
	}

	newSessionArgs := []string{
		"new-session", "-d", "-s", sessionName,
		"-x", strconv.Itoa(dims.Cols), "-y", strconv.Itoa(dims.Rows),
	}
	if dir != "" {
		newSessionArgs = append(newSessionArgs, "-c", dir)
	}
	newSessionArgs = append(newSessionArgs, cmdLine)

	if out, err := t.run(newSessionArgs...); err != nil {
		return nil, txerr.Wrap(txerr.KindPTYError, err, "tmux new-session: %s", out)
	}

	// remain-on-exit keeps the pane capturable after the command finishes
	// instead of tearing the session down, so IsAlive/capture-pane don't
	// race a just-exited command into a false "session gone" error.
	if out, err := t.run("set-option", "-t", t.sessionName, "remain-on-exit", "on"); err != nil {
		t.Kill()
		return nil, txerr.Wrap(txerr.KindPTYError, err, "tmux set-option remain-on-exit: %s", out)
	}

	return t, nil
}

func (t *Tmux) tmuxCmd(args ...string) *exec.Cmd {
	return exec.Command("tmux", append([]string{"-S", t.socketPath}, args...)...)
}

func (t *Tmux) run(args ...string) (string, error) {
	out, err := t.tmuxCmd(args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Read captures the pane once, prefixed with the cursor-home escape. If
// the capture is byte-identical to the previous one, it returns empty to
// signal idle, unless InvalidateCache was called since the last read.
func (t *Tmux) Read() ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out, err := t.run("capture-pane", "-p", "-t", t.sessionName)
	if err != nil {
		return nil, txerr.Wrap(txerr.KindPTYError, err, "tmux capture-pane")
	}

	if out == t.lastCapture && !t.forceFresh {
		return nil, nil
	}
	t.lastCapture = out
	t.forceFresh = false

	data := make([]byte, 0, len(cursorHomeEscape)+len(out))
	data = append(data, cursorHomeEscape...)
	data = append(data, out...)
	return data, nil
}

// InvalidateCache forces the next Read to return a fresh frame even if
// byte-identical to the previous capture. Used right before a snapshot.
func (t *Tmux) InvalidateCache() {
	t.mu.Lock()
	t.forceFresh = true
	t.mu.Unlock()
}

// Write delivers bytes as hex keystrokes, avoiding escape-sequence
// interpretation issues in tmux's send-keys.
func (t *Tmux) Write(data []byte) error {
	args := []string{"send-keys", "-t", t.sessionName, "-H"}
	for _, b := range data {
		args = append(args, fmt.Sprintf("%02x", b))
	}
	if _, err := t.run(args...); err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "tmux send-keys")
	}
	return nil
}

// Resize sends a tmux resize-window command and updates stored dims.
func (t *Tmux) Resize(dims geometry.Dimensions) error {
	t.mu.Lock()
	t.dims = dims
	t.mu.Unlock()
	if _, err := t.run("resize-window", "-t", t.sessionName, "-x", strconv.Itoa(dims.Cols), "-y", strconv.Itoa(dims.Rows)); err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "tmux resize-window")
	}
	return nil
}

// IsAlive tests session existence via tmux has-session.
func (t *Tmux) IsAlive() bool {
	t.mu.Lock()
	killed := t.killed
	t.mu.Unlock()
	if killed {
		return false
	}
	return t.tmuxCmd("has-session", "-t", t.sessionName).Run() == nil
}

// Kill destroys the tmux session.
func (t *Tmux) Kill() error {
	t.mu.Lock()
	t.killed = true
	t.mu.Unlock()
	if _, err := t.run("kill-session", "-t", t.sessionName); err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "tmux kill-session")
	}
	return nil
}

// IsTmuxMode is always true for a multiplexer-backed handle.
func (t *Tmux) IsTmuxMode() bool { return true }

// shelljoin quotes s for safe use inside a shell command line if it
// contains any shell-special characters.
func shelljoin(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_' ||
			c == '.' || c == '/' || c == ':' || c == '=' || c == '+') {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
