// The sessions subcommand renders a live table of a running server's
// sessions (§12, a supplement: purely an operator convenience with no
// core TST semantics of its own). Grounded on cmd/vee/dashboard.go's
// poll-and-render loop, reimplemented with bubbletea/bubbles/lipgloss
// rather than raw ANSI escapes since those libraries are the server's
// terminal UI toolkit elsewhere in the dependency set.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tstmcp/terminal-mcp/internal/manager"
)

// SessionsCmd polls a running daemon's /api/sessions endpoint and renders
// it as a live table.
type SessionsCmd struct {
	Addr string `default:"127.0.0.1:7430" help:"Daemon address to poll."`
}

func (cmd *SessionsCmd) Run() error {
	m := newDashboardModel(cmd.Addr)
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

type tickMsg time.Time

type sessionsFetchedMsg struct {
	rows []manager.Summary
	err  error
}

func pollTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func fetchSessions(addr string) tea.Cmd {
	return func() tea.Msg {
		rows, err := fetchSessionsOnce(addr)
		return sessionsFetchedMsg{rows: rows, err: err}
	}
}

func fetchSessionsOnce(addr string) ([]manager.Summary, error) {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/api/sessions", addr))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []manager.Summary
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(fetchSessions(m.addr), pollTick())
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(fetchSessions(m.addr), pollTick())
	case sessionsFetchedMsg:
		m.rows = msg.rows
		m.err = msg.err
		m.lastFetch = time.Now()
		return m, nil
	}
	return m, nil
}

func (m dashboardModel) View() string {
	return renderDashboard(m)
}
