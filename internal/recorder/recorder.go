// Package recorder implements the line-delimited cast recording format
// described in spec §6.3: one header line, then one JSON event array per
// line, in observed I/O order.
package recorder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// Header is the cast stream's first line.
type Header struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// EventKind distinguishes an "o" (output) from an "i" (input) event.
type EventKind string

const (
	EventOutput EventKind = "o"
	EventInput  EventKind = "i"
)

// Event is one line of the recording after the header.
type Event struct {
	Time float64
	Kind EventKind
	Data string
}

const formatVersion = 2

// Recorder writes a cast stream synchronously: each call to RecordOutput
// or RecordInput appends exactly one line and flushes it immediately, a
// simpler contract than the asynchronous, timer-batched flush machinery
// an at-least-once streaming writer needs, since the session layer calls
// Record* once per read/write under its own lock rather than streaming
// partial chunks concurrently.
type Recorder struct {
	mu        sync.Mutex
	w         io.Writer
	startTime time.Time
	closed    bool
}

// New starts a new recording: writes the header line immediately.
func New(w io.Writer, width, height int, env map[string]string) (*Recorder, error) {
	now := time.Now()
	header := Header{
		Version:   formatVersion,
		Width:     width,
		Height:    height,
		Timestamp: now.Unix(),
		Env:       env,
	}
	data, err := json.Marshal(header)
	if err != nil {
		return nil, txerr.Wrap(txerr.KindSerialization, err, "marshal cast header")
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return nil, txerr.Wrap(txerr.KindIO, err, "write cast header")
	}
	return &Recorder{w: w, startTime: now}, nil
}

// RecordOutput appends one "o" event with data lossily decoded to text.
func (r *Recorder) RecordOutput(data []byte) error {
	return r.record(EventOutput, data)
}

// RecordInput appends one "i" event with data lossily decoded to text.
func (r *Recorder) RecordInput(data []byte) error {
	return r.record(EventInput, data)
}

func (r *Recorder) record(kind EventKind, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}

	elapsed := time.Since(r.startTime).Seconds()
	// lossy UTF-8 decode: invalid sequences become U+FFFD, matching the
	// spec's "bytes are lossy-decoded to text" rule.
	text := toValidUTF8(data)
	event := []interface{}{elapsed, string(kind), text}

	line, err := json.Marshal(event)
	if err != nil {
		return txerr.Wrap(txerr.KindSerialization, err, "marshal cast event")
	}
	if _, err := fmt.Fprintf(r.w, "%s\n", line); err != nil {
		return txerr.Wrap(txerr.KindIO, err, "write cast event")
	}
	if f, ok := r.w.(interface{ Sync() error }); ok {
		_ = f.Sync()
	}
	return nil
}

// Close marks the recorder closed; further Record* calls are no-ops.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// toValidUTF8 replaces invalid byte sequences with the Unicode
// replacement character so recorded text is always well-formed.
func toValidUTF8(data []byte) string {
	return string([]rune(string(data)))
}

// Reader parses a cast stream line by line.
type Reader struct {
	scanner    *bufio.Scanner
	header     *Header
	headerRead bool
}

// NewReader builds a Reader over r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	return &Reader{scanner: s}
}

// Header returns the parsed header, reading it on first call if needed.
func (r *Reader) Header() (Header, error) {
	if r.headerRead {
		return *r.header, nil
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Header{}, txerr.Wrap(txerr.KindParseError, err, "read cast header")
		}
		return Header{}, txerr.New(txerr.KindParseError, "empty cast stream")
	}
	var h Header
	if err := json.Unmarshal(r.scanner.Bytes(), &h); err != nil {
		return Header{}, txerr.Wrap(txerr.KindParseError, err, "parse cast header")
	}
	r.header = &h
	r.headerRead = true
	return h, nil
}

// Next returns the next event, or io.EOF when the stream is exhausted.
func (r *Reader) Next() (Event, error) {
	if !r.headerRead {
		if _, err := r.Header(); err != nil {
			return Event{}, err
		}
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Event{}, txerr.Wrap(txerr.KindParseError, err, "read cast event")
		}
		return Event{}, io.EOF
	}

	var raw []interface{}
	if err := json.Unmarshal(r.scanner.Bytes(), &raw); err != nil {
		return Event{}, txerr.Wrap(txerr.KindParseError, err, "parse cast event")
	}
	if len(raw) != 3 {
		return Event{}, txerr.New(txerr.KindParseError, "cast event must have 3 fields, got %d", len(raw))
	}
	t, ok := raw[0].(float64)
	if !ok {
		return Event{}, txerr.New(txerr.KindParseError, "cast event time must be numeric")
	}
	kind, ok := raw[1].(string)
	if !ok {
		return Event{}, txerr.New(txerr.KindParseError, "cast event kind must be a string")
	}
	data, ok := raw[2].(string)
	if !ok {
		return Event{}, txerr.New(txerr.KindParseError, "cast event data must be a string")
	}
	return Event{Time: t, Kind: EventKind(kind), Data: data}, nil
}
