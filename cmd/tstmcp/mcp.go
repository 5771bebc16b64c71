// MCP tool surface wiring (§6.1): each tool wraps one internal/manager or
// internal/session operation and translates *txerr.Error into the two
// tool-facing error codes via txerr.ToolCodeFor. Grounded on
// cmd/vee/mcp.go's mcp.NewServer/mcp.AddTool registration idiom.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tstmcp/terminal-mcp/internal/config"
	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/detect/detectors"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/key"
	"github.com/tstmcp/terminal-mcp/internal/logging"
	"github.com/tstmcp/terminal-mcp/internal/manager"
	"github.com/tstmcp/terminal-mcp/internal/session"
	"github.com/tstmcp/terminal-mcp/internal/tst"
	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// textResult marshals v to JSON and wraps it as the tool's text content,
// the shape every handler below returns on success.
func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, toolError(txerr.Wrap(txerr.KindSerialization, err, "marshal tool result"))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, v, nil
}

// defaultPipeline builds the detection pipeline used by every snapshot,
// wait, and click call: the eight built-in widget detectors plus any
// operator-configured custom patterns (§12), insertion-sorted by
// descending priority.
func defaultPipeline(cfg config.ServerConfig) (*detect.Pipeline, error) {
	ds := []detect.Detector{
		detectors.BorderDetector{},
		detectors.MenuDetector{},
		detectors.TableDetector{},
		detectors.InputDetector{},
		detectors.ButtonDetector{},
		detectors.CheckboxDetector{},
		detectors.ProgressBarDetector{},
		detectors.StatusBarDetector{},
	}

	var patterns []*regexp.Regexp
	for _, p := range cfg.Detection.CustomPatterns {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, txerr.Wrap(txerr.KindConfigError, err, "compile custom pattern %q", p.Name)
		}
		patterns = append(patterns, re)
	}
	if len(patterns) > 0 {
		ds = append(ds, detectors.CustomPatternDetector{Patterns: patterns})
	}

	return detect.NewPipeline(ds...), nil
}

// dispatcher closes over the server's shared state: the session
// registry, the detection pipeline, a snapshot/wait config derived from
// detection settings, and the log ring buffer.
type dispatcher struct {
	mgr      *manager.Manager
	pipeline *detect.Pipeline
	snapCfg  session.Config
	logs     *logging.RingBuffer
}

func toolError(err error) error {
	if err == nil {
		return nil
	}
	kind := txerr.KindOf(err)
	return fmt.Errorf("%s: %w", txerr.ToolCodeFor(kind), err)
}

// --- session.create ---

type createArgs struct {
	Command          string            `json:"command" jsonschema:"Program to run"`
	Args             []string          `json:"args,omitempty" jsonschema:"Program arguments"`
	Rows             int               `json:"rows,omitempty" jsonschema:"Terminal rows; if rows and cols are both omitted the server's configured size is used, if only cols is given rows is 24"`
	Cols             int               `json:"cols,omitempty" jsonschema:"Terminal columns; if rows and cols are both omitted the server's configured size is used, if only rows is given cols is 80"`
	Cwd              string            `json:"cwd,omitempty" jsonschema:"Working directory"`
	Env              map[string]string `json:"env,omitempty" jsonschema:"Additional environment variables"`
	Visual           bool              `json:"visual,omitempty" jsonschema:"Spawn inside a visible terminal window backed by tmux"`
	PreferredTerminal string           `json:"preferred_terminal,omitempty" jsonschema:"Visual-mode terminal emulator name to prefer"`
}

type createResult struct {
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
}

func (d *dispatcher) handleCreate(ctx context.Context, req *mcp.CallToolRequest, args createArgs) (*mcp.CallToolResult, any, error) {
	var dims *geometry.Dimensions
	if args.Rows > 0 || args.Cols > 0 {
		d := geometry.DefaultDimensions
		if args.Rows > 0 {
			d.Rows = args.Rows
		}
		if args.Cols > 0 {
			d.Cols = args.Cols
		}
		dims = &d
	}

	sess, err := d.mgr.Create(manager.CreateParams{
		Command:  args.Command,
		Args:     args.Args,
		Dims:     dims,
		Cwd:      args.Cwd,
		Env:      args.Env,
		Visual:   args.Visual,
		Terminal: args.PreferredTerminal,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}

	return textResult(createResult{SessionID: sess.ID(), Mode: sess.Mode().String()})
}

// --- session.list ---

type listArgs struct{}

type sessionSummary struct {
	SessionID string `json:"session_id"`
	Command   string `json:"command"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (d *dispatcher) handleList(ctx context.Context, req *mcp.CallToolRequest, args listArgs) (*mcp.CallToolResult, any, error) {
	summaries := d.mgr.List()
	out := make([]sessionSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, sessionSummary{
			SessionID: s.ID,
			Command:   s.Command,
			Status:    s.Status.String(),
			CreatedAt: s.CreatedAt.Format(time.RFC3339),
		})
	}
	return textResult(out)
}

// --- session.close ---

type sessionIDArgs struct {
	SessionID string `json:"session_id" jsonschema:"The session to target"`
}

func (d *dispatcher) handleClose(ctx context.Context, req *mcp.CallToolRequest, args sessionIDArgs) (*mcp.CallToolResult, any, error) {
	if err := d.mgr.Close(args.SessionID); err != nil {
		return nil, nil, toolError(err)
	}
	return textResult(map[string]bool{"closed": true})
}

// --- session.resize ---

type resizeArgs struct {
	SessionID string `json:"session_id"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
}

func (d *dispatcher) handleResize(ctx context.Context, req *mcp.CallToolRequest, args resizeArgs) (*mcp.CallToolResult, any, error) {
	sess, err := d.mgr.Get(args.SessionID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if args.Rows <= 0 || args.Cols <= 0 {
		return nil, nil, toolError(txerr.New(txerr.KindInvalidDimensions, "rows and cols must be > 0"))
	}
	if err := sess.Resize(geometry.Dimensions{Rows: args.Rows, Cols: args.Cols}); err != nil {
		return nil, nil, toolError(err)
	}
	return textResult(map[string]bool{"resized": true})
}

// --- snapshot ---

func (d *dispatcher) handleSnapshot(ctx context.Context, req *mcp.CallToolRequest, args sessionIDArgs) (*mcp.CallToolResult, any, error) {
	sess, err := d.mgr.Get(args.SessionID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	snap, err := sess.Snapshot(d.pipeline, d.snapCfg)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return textResult(snap)
}

// --- read_output ---

type readOutputArgs struct {
	SessionID     string `json:"session_id"`
	SinceLastRead bool   `json:"since_last_read,omitempty"`
}

type readOutputResult struct {
	Text          string `json:"text"`
	BytesRead     int    `json:"bytes_read"`
	MoreAvailable bool   `json:"more_available"`
}

func (d *dispatcher) handleReadOutput(ctx context.Context, req *mcp.CallToolRequest, args readOutputArgs) (*mcp.CallToolResult, any, error) {
	sess, err := d.mgr.Get(args.SessionID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	text, n, more, err := sess.ReadOutput(args.SinceLastRead)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return textResult(readOutputResult{Text: text, BytesRead: n, MoreAvailable: more})
}

// --- press_key ---

type pressKeyArgs struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key" jsonschema:"Symbolic key, e.g. Enter, Ctrl+C, Up"`
}

func (d *dispatcher) handlePressKey(ctx context.Context, req *mcp.CallToolRequest, args pressKeyArgs) (*mcp.CallToolResult, any, error) {
	sess, err := d.mgr.Get(args.SessionID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if _, err := sess.PressKey(args.Key); err != nil {
		return nil, nil, toolError(err)
	}
	return textResult(map[string]bool{"sent": true})
}

// --- type ---

type typeArgs struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	DelayMs   int    `json:"delay_ms,omitempty"`
}

type typeResult struct {
	CharsSent int `json:"chars_sent"`
}

func (d *dispatcher) handleType(ctx context.Context, req *mcp.CallToolRequest, args typeArgs) (*mcp.CallToolResult, any, error) {
	sess, err := d.mgr.Get(args.SessionID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	n, err := sess.TypeText(args.Text, args.DelayMs)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return textResult(typeResult{CharsSent: n})
}

// --- click ---

type clickArgs struct {
	SessionID       string `json:"session_id"`
	RefID           string `json:"ref_id" jsonschema:"The target element's ref_id from a prior snapshot"`
	InterKeyDelayMs int    `json:"inter_key_delay_ms,omitempty"`
}

type clickResult struct {
	KeysSent []string `json:"keys_sent"`
}

func (d *dispatcher) handleClick(ctx context.Context, req *mcp.CallToolRequest, args clickArgs) (*mcp.CallToolResult, any, error) {
	sess, err := d.mgr.Get(args.SessionID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	keys, err := sess.Click(args.RefID, d.pipeline, d.snapCfg, args.InterKeyDelayMs)
	if err != nil {
		return nil, nil, toolError(err)
	}
	sent := make([]string, len(keys))
	for i, k := range keys {
		sent[i] = key.Display(k)
	}
	return textResult(clickResult{KeysSent: sent})
}

// --- wait_for ---

type waitForArgs struct {
	SessionID    string `json:"session_id"`
	Text         string `json:"text,omitempty" jsonschema:"Regex to wait for in raw_text"`
	ElementType  string `json:"element_type,omitempty" jsonschema:"Element type to wait for"`
	Gone         bool   `json:"gone,omitempty" jsonschema:"Wait for absence instead of presence"`
	Idle         bool   `json:"idle,omitempty" jsonschema:"Wait for output to go quiet instead"`
	TimeoutMs    int    `json:"timeout_ms,omitempty"`
	PollMs       int    `json:"poll_interval_ms,omitempty"`
}

type waitForResult struct {
	ConditionMet bool                    `json:"condition_met"`
	WaitedMs     int64                   `json:"waited_ms"`
	Snapshot     tst.TerminalStateTree   `json:"snapshot"`
}

func (d *dispatcher) handleWaitFor(ctx context.Context, req *mcp.CallToolRequest, args waitForArgs) (*mcp.CallToolResult, any, error) {
	sess, err := d.mgr.Get(args.SessionID)
	if err != nil {
		return nil, nil, toolError(err)
	}

	cond := session.DefaultWaitCondition()
	cond.Text = args.Text
	cond.ElementType = args.ElementType
	cond.Gone = args.Gone
	cond.Idle = args.Idle
	if args.TimeoutMs > 0 {
		cond.Timeout = time.Duration(args.TimeoutMs) * time.Millisecond
	}
	if args.PollMs > 0 {
		cond.PollInterval = time.Duration(args.PollMs) * time.Millisecond
	}

	result, err := sess.WaitFor(cond, d.pipeline, d.snapCfg)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return textResult(waitForResult{ConditionMet: result.ConditionMet, WaitedMs: result.WaitedMs, Snapshot: result.Snapshot})
}

// --- server_logs ---

type serverLogsArgs struct {
	Level string `json:"level,omitempty" jsonschema:"Minimum level: debug, info, warn, error"`
}

type logEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

func (d *dispatcher) handleServerLogs(ctx context.Context, req *mcp.CallToolRequest, args serverLogsArgs) (*mcp.CallToolResult, any, error) {
	level := logging.ParseLevel(args.Level)
	entries := d.logs.Entries(level)
	out := make([]logEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, logEntry{Time: e.Time.Format(time.RFC3339), Level: e.Level.String(), Message: e.Message})
	}
	return textResult(out)
}

// register adds every tool (§6.1's table) to server.
func (d *dispatcher) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_create",
		Description: "Spawn a new terminal session running command, optionally inside a visible terminal window.",
	}, d.handleCreate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_list",
		Description: "List every active session.",
	}, d.handleList)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_close",
		Description: "Terminate a session and remove it from the registry.",
	}, d.handleClose)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "session_resize",
		Description: "Resize a session's terminal.",
	}, d.handleResize)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "snapshot",
		Description: "Wait for the session's output to go idle, then return its detected terminal state tree.",
	}, d.handleSnapshot)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_output",
		Description: "Return the session's current plain-text screen contents and raw byte accounting.",
	}, d.handleReadOutput)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "press_key",
		Description: "Send one symbolic key to a session.",
	}, d.handlePressKey)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "type_text",
		Description: "Type literal text into a session, optionally with a delay between characters.",
	}, d.handleType)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "click",
		Description: "Navigate to and activate a detected element by ref_id.",
	}, d.handleClick)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "wait_for",
		Description: "Block until a text, element-type, gone, or idle condition is met, then return a snapshot.",
	}, d.handleWaitFor)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "server_logs",
		Description: "Return recent server log entries at or above a minimum level.",
	}, d.handleServerLogs)
}
