// Package session implements the terminal session: the composition of a
// PTY handle, a VT parser/grid, a raw output buffer, an optional
// recorder, and the operations that drive them (§4.5).
package session

import (
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/grid"
	"github.com/tstmcp/terminal-mcp/internal/key"
	"github.com/tstmcp/terminal-mcp/internal/ptyio"
	"github.com/tstmcp/terminal-mcp/internal/recorder"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
	"github.com/tstmcp/terminal-mcp/internal/vtparser"
)

func gridFor(dims geometry.Dimensions) *grid.Grid {
	return grid.New(dims)
}

// Status is the lifecycle state of a Session.
type Status int

const (
	StatusRunning Status = iota
	StatusExited
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusExited:
		return "exited"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Mode selects between a headless PTY and a visible terminal attached to
// a multiplexer session.
type Mode int

const (
	ModeHeadless Mode = iota
	ModeVisual
)

func (m Mode) String() string {
	if m == ModeVisual {
		return "visual"
	}
	return "headless"
}

// VisualHandle describes the optional visible terminal window spawned
// alongside a visual-mode session (§6.4).
type VisualHandle struct {
	PID          int
	TerminalName string
	WindowID     string
}

// Session owns one PTY, one VT parser (and its grid), a raw output
// buffer, and an optional recorder, behind fine-grained locks acquired
// in the order pty -> parser -> outputBuf -> recorder -> status (§5).
type Session struct {
	id      string
	command string
	args    []string

	ptyMu sync.Mutex
	pty   ptyio.Handle

	parserMu sync.Mutex
	parser   *vtparser.Parser

	outputMu sync.Mutex
	output   *outputBuffer

	recorderMu sync.Mutex
	rec        *recorder.Recorder

	statusMu sync.Mutex
	status   Status

	createdAt time.Time
	mode      Mode
	visual    *VisualHandle
}

// New wraps an already-spawned PTY handle into a Session.
func New(command string, args []string, dims geometry.Dimensions, pty ptyio.Handle, mode Mode, visual *VisualHandle) *Session {
	return &Session{
		id:        uuid.NewString(),
		command:   command,
		args:      args,
		pty:       pty,
		parser:    vtparser.New(gridFor(dims)),
		output:    newOutputBuffer(),
		status:    StatusRunning,
		createdAt: time.Now(),
		mode:      mode,
		visual:    visual,
	}
}

func (s *Session) ID() string          { return s.id }
func (s *Session) Command() string     { return s.command }
func (s *Session) Args() []string      { return s.args }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) Mode() Mode          { return s.mode }
func (s *Session) Visual() *VisualHandle { return s.visual }

func (s *Session) Status() Status {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

func (s *Session) setStatus(status Status) {
	s.statusMu.Lock()
	s.status = status
	s.statusMu.Unlock()
}

// IsAlive probes the underlying PTY without reaping or blocking.
func (s *Session) IsAlive() bool {
	s.ptyMu.Lock()
	defer s.ptyMu.Unlock()
	return s.pty.IsAlive()
}

// StartRecording begins capturing I/O to w in cast format. Fails if a
// recording is already active.
func (s *Session) StartRecording(w recorderWriter, env map[string]string) error {
	s.parserMu.Lock()
	dims := s.parser.Grid().Dimensions()
	s.parserMu.Unlock()

	s.recorderMu.Lock()
	defer s.recorderMu.Unlock()
	if s.rec != nil {
		return txerr.New(txerr.KindInvalidInput, "recording already in progress")
	}

	rec, err := recorder.New(w, dims.Cols, dims.Rows, env)
	if err != nil {
		return err
	}
	s.rec = rec
	return nil
}

// StopRecording ends the active recording, if any.
func (s *Session) StopRecording() error {
	s.recorderMu.Lock()
	defer s.recorderMu.Unlock()
	if s.rec == nil {
		return nil
	}
	err := s.rec.Close()
	s.rec = nil
	return err
}

// recorderWriter is the subset of io.Writer the recorder needs; kept as
// its own name so callers don't need to import io just for this.
type recorderWriter interface {
	Write(p []byte) (n int, err error)
}

// ProcessOutput reads whatever the PTY has (possibly zero bytes), appends
// it to the raw buffer, records it as output if recording, and feeds it
// to the parser. Returns the number of bytes read.
func (s *Session) ProcessOutput() (int, error) {
	s.ptyMu.Lock()
	data, err := s.pty.Read()
	s.ptyMu.Unlock()
	if err != nil {
		return 0, txerr.Wrap(txerr.KindPTYError, err, "read pty")
	}
	if len(data) == 0 {
		return 0, nil
	}

	s.outputMu.Lock()
	s.output.append(data)
	s.outputMu.Unlock()

	s.recorderMu.Lock()
	if s.rec != nil {
		_ = s.rec.RecordOutput(data)
	}
	s.recorderMu.Unlock()

	s.parserMu.Lock()
	s.parser.ProcessRunes(string(data))
	s.parserMu.Unlock()

	return len(data), nil
}

// Write records data as input (if recording) and forwards it to the PTY.
func (s *Session) Write(data []byte) error {
	s.recorderMu.Lock()
	if s.rec != nil {
		_ = s.rec.RecordInput(data)
	}
	s.recorderMu.Unlock()

	s.ptyMu.Lock()
	defer s.ptyMu.Unlock()
	if err := s.pty.Write(data); err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "write pty")
	}
	return nil
}

// PressKey parses text as a Key, encodes it, and writes it. In visual
// mode it sleeps 10ms afterwards so TUIs have time to repaint before the
// next event (§4.5).
func (s *Session) PressKey(text string) (key.Key, error) {
	k, err := key.Parse(text)
	if err != nil {
		return key.Key{}, err
	}
	if err := s.Write(key.Encode(k)); err != nil {
		return key.Key{}, err
	}
	if s.mode == ModeVisual {
		time.Sleep(10 * time.Millisecond)
	}
	return k, nil
}

// TypeText writes text to the PTY, optionally with delayMs between
// characters, and returns the character count.
func (s *Session) TypeText(text string, delayMs int) (int, error) {
	if delayMs > 0 {
		count := 0
		for _, ch := range text {
			if err := s.Write([]byte(string(ch))); err != nil {
				return count, err
			}
			count++
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
		return count, nil
	}
	if err := s.Write([]byte(text)); err != nil {
		return 0, err
	}
	return len([]rune(text)), nil
}

// Resize resizes the PTY first, then the grid (which preserves content).
func (s *Session) Resize(dims geometry.Dimensions) error {
	s.ptyMu.Lock()
	err := s.pty.Resize(dims)
	s.ptyMu.Unlock()
	if err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "resize pty")
	}

	s.parserMu.Lock()
	s.parser.Grid().Resize(dims)
	s.parserMu.Unlock()
	return nil
}

// ReadOutput returns the ANSI-stripped current grid text, the byte count
// of the requested slice of raw output, and whether more remains unread.
// Grounded on output.rs's read_output: the stripped text is always the
// live grid's plain text, while the byte accounting tracks the raw
// buffer's read cursor independently.
func (s *Session) ReadOutput(sinceLastRead bool) (text string, bytesRead int, moreAvailable bool, err error) {
	if _, err := s.ProcessOutput(); err != nil {
		return "", 0, false, err
	}

	s.outputMu.Lock()
	var raw []byte
	if sinceLastRead {
		raw = s.output.readSinceLast()
	} else {
		raw = s.output.readAll()
	}
	more := s.output.unreadCount() > 0
	s.outputMu.Unlock()

	s.parserMu.Lock()
	plain := s.parser.Grid().ToPlainText()
	s.parserMu.Unlock()

	return plain, len(raw), more, nil
}

// Terminate kills the optional visible-window child, kills the PTY, and
// marks status terminated.
func (s *Session) Terminate() error {
	if s.visual != nil && s.visual.PID > 0 {
		if proc, findErr := os.FindProcess(s.visual.PID); findErr == nil {
			_ = proc.Signal(syscall.SIGTERM)
		}
	}

	s.ptyMu.Lock()
	err := s.pty.Kill()
	s.ptyMu.Unlock()

	s.setStatus(StatusTerminated)
	if err != nil {
		return txerr.Wrap(txerr.KindPTYError, err, "kill pty")
	}
	return nil
}
