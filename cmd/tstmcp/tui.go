package main

import (
	"time"

	"github.com/tstmcp/terminal-mcp/internal/manager"
)

// dashboardModel is the bubbletea model backing the sessions subcommand.
type dashboardModel struct {
	addr      string
	rows      []manager.Summary
	err       error
	lastFetch time.Time
}

func newDashboardModel(addr string) dashboardModel {
	return dashboardModel{addr: addr}
}
