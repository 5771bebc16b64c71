package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/tstmcp/terminal-mcp/internal/config"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
	"github.com/tstmcp/terminal-mcp/internal/logging"
	"github.com/tstmcp/terminal-mcp/internal/manager"
	"github.com/tstmcp/terminal-mcp/internal/recindex"
	"github.com/tstmcp/terminal-mcp/internal/session"
)

// CLI is the top-level command structure, mirroring cmd/vee/main.go's
// kong-tagged CLI struct.
type CLI struct {
	Debug    bool     `env:"TSTMCP_DEBUG" help:"Enable debug logging."`
	JSONLogs bool     `name:"json-logs" help:"Emit stderr logs as JSON instead of text."`
	Serve    ServeCmd `cmd:"" help:"Run the terminal state tree MCP server."`
	Sessions SessionsCmd `cmd:"" help:"Show a live dashboard of active sessions."`
}

// ServeCmd runs the MCP server, either over stdio or SSE/HTTP.
type ServeCmd struct {
	Config    string `type:"path" help:"Path to the server's YAML config file."`
	Transport string `default:"stdio" enum:"stdio,sse" help:"Transport: stdio or sse."`
	Addr      string `default:"127.0.0.1:7430" help:"Listen address when transport is sse."`
}

// Run boots logging, config, the session manager, and the recording
// index, then serves the chosen transport until it exits.
func (cmd *ServeCmd) Run(cli *CLI) error {
	level := logging.ParseLevel("info")
	if cli.Debug {
		level = logging.ParseLevel("debug")
	}
	logs := logging.Setup(level, cli.JSONLogs, 500)

	cfg := config.Default()
	if cmd.Config != "" {
		loaded, err := config.LoadFile(cmd.Config)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cli.Debug {
		cfg.Server.LogLevel = "debug"
	}

	profile, err := config.LoadProfile()
	if err != nil {
		return fmt.Errorf("load project profile: %w", err)
	}
	cfg = profile.Apply(cfg)

	mgr := manager.New(manager.Options{
		MaxSessions: cfg.Server.MaxSessions,
		DefaultDims: geometry.Dimensions{Rows: cfg.Terminal.DefaultRows, Cols: cfg.Terminal.DefaultCols},
		Security:    cfg.Security,
	})
	defer drainManager(mgr)

	idx, err := openRecIndex()
	if err != nil {
		return fmt.Errorf("open recording index: %w", err)
	}
	if idx != nil {
		defer idx.Close()
	}

	pipeline, err := defaultPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build detection pipeline: %w", err)
	}

	snapCfg := session.DefaultConfig()
	snapCfg.IdleThreshold = time.Duration(cfg.Detection.IdleThresholdMs) * time.Millisecond
	snapCfg.IdleTimeout = time.Duration(cfg.Detection.MaxIdleWaitMs) * time.Millisecond

	d := &dispatcher{mgr: mgr, pipeline: pipeline, snapCfg: snapCfg, logs: logs}

	switch cmd.Transport {
	case "sse":
		return runDaemon(d, cmd.Addr)
	default:
		return runStdio(d)
	}
}

// openRecIndex opens the recording catalogue at ~/.local/state/tstmcp,
// mirroring cmd/vee/config.go's stateDir convention. A failure to
// resolve a home directory is non-fatal: recording indexing is a
// supplement, not a core requirement, so the server still serves with
// idx == nil.
func openRecIndex() (*recindex.Index, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}
	dir := filepath.Join(home, ".local", "state", "tstmcp")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil
	}
	return recindex.Open(filepath.Join(dir, "recordings.db"))
}

func main() {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("tstmcp"),
		kong.Description("Exposes terminal CLI/TUI applications as a machine-controllable tree of elements, over MCP."),
		kong.UsageOnError(),
		kong.Exit(os.Exit),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tstmcp: %v\n", err)
		os.Exit(1)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx.Bind(&cli)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
