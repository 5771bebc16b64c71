package ptyio

import (
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"

	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// Direct is a real pseudo-terminal spawned for one command, grounded on
// cmd/vee/pane.go's pty.StartWithSize usage. Reads never block: a
// background goroutine continuously drains the master end into an
// internal buffer that Read empties on each call.
type Direct struct {
	mu     sync.Mutex
	master *os.File
	cmd    *exec.Cmd
	dims   geometry.Dimensions
	buf    []byte
	alive  bool
}

// SpawnDirect starts command under a PTY sized to dims, optionally in dir.
func SpawnDirect(command string, args []string, dims geometry.Dimensions, dir string) (*Direct, error) {
	cmd := exec.Command(command, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = os.Environ()

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(dims.Rows),
		Cols: uint16(dims.Cols),
	})
	if err != nil {
		return nil, txerr.Wrap(txerr.KindPTYError, err, "spawn %s", command)
	}

	d := &Direct{master: master, cmd: cmd, dims: dims, alive: true}
	go d.pump()
	return d, nil
}

func (d *Direct) pump() {
	buf := make([]byte, 32*1024)
	for {
		n, err := d.master.Read(buf)
		if n > 0 {
			d.mu.Lock()
			d.buf = append(d.buf, buf[:n]...)
			d.mu.Unlock()
		}
		if err != nil {
			d.mu.Lock()
			d.alive = false
			d.mu.Unlock()
			return
		}
	}
}

// Read drains and returns whatever has accumulated since the last call.
func (d *Direct) Read() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.buf) == 0 {
		return nil, nil
	}
	out := d.buf
	d.buf = nil
	return out, nil
}

// Write writes all bytes to the PTY master.
func (d *Direct) Write(data []byte) error {
	if _, err := d.master.Write(data); err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "write")
	}
	return nil
}

// Resize updates the kernel-visible PTY size and the stored dimensions.
func (d *Direct) Resize(dims geometry.Dimensions) error {
	d.mu.Lock()
	d.dims = dims
	d.mu.Unlock()
	if err := pty.Setsize(d.master, &pty.Winsize{Rows: uint16(dims.Rows), Cols: uint16(dims.Cols)}); err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "resize")
	}
	return nil
}

// IsAlive reports whether the pump goroutine has observed process exit.
func (d *Direct) IsAlive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alive
}

// Kill signals the child and closes the master end.
func (d *Direct) Kill() error {
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Signal(syscall.SIGTERM)
	}
	return d.master.Close()
}

// IsTmuxMode is always false for a direct PTY.
func (d *Direct) IsTmuxMode() bool { return false }
