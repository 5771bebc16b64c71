package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tstmcp/terminal-mcp/internal/manager"
)

// serverImplementation identifies this MCP server in its Implementation
// metadata, reported to clients during initialize.
var serverImplementation = &mcp.Implementation{
	Name:    "terminal-mcp",
	Version: "0.1.0",
}

// newMCPServer builds one MCP server instance with every tool registered
// against the shared dispatcher. Grounded on cmd/vee/daemon.go's
// newMCPServer, simplified since this server has no per-connection
// session concept of its own (sessions here are terminal sessions, not
// MCP client connections).
func newMCPServer(d *dispatcher) *mcp.Server {
	server := mcp.NewServer(serverImplementation, nil)
	d.register(server)
	return server
}

// runStdio serves the MCP protocol over stdio, for clients that launch
// the server as a subprocess. Grounded on cmd/vee/mcp.go's runMCPServer.
func runStdio(d *dispatcher) error {
	server := newMCPServer(d)
	slog.Info("starting MCP server", "transport", "stdio")
	return server.Run(context.Background(), &mcp.StdioTransport{})
}

// setupHTTPMux builds the daemon's HTTP surface: the MCP SSE endpoint
// plus a small JSON API for the dashboard subcommand, grounded on
// cmd/vee/daemon.go's setupHTTPMux.
func setupHTTPMux(d *dispatcher) *http.ServeMux {
	sseHandler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return newMCPServer(d)
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/sse", sseHandler)
	mux.HandleFunc("/api/sessions", handleAPISessions(d))
	return mux
}

func handleAPISessions(d *dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(d.mgr.List())
	}
}

// runDaemon listens on addr and serves both the MCP SSE endpoint and the
// dashboard API in the foreground, mirroring cmd/vee/daemon.go's
// DaemonCmd.Run.
func runDaemon(d *dispatcher, addr string) error {
	mux := setupHTTPMux(d)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	slog.Info("daemon listening", "addr", ln.Addr().String())
	return http.Serve(ln, mux)
}

// drainManager is called on shutdown to close every live session so
// child processes don't outlive the server.
func drainManager(mgr *manager.Manager) {
	if err := mgr.CloseAll(); err != nil {
		slog.Warn("error closing sessions during shutdown", "error", err)
	}
}
