// Rendering for the sessions dashboard: a bubbles/table listing plus a
// status line, styled with lipgloss. Grounded on cmd/vee/statusbar.go's
// style-variable layout, adapted from a multiplexer tab bar to a session
// table footer.
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/tstmcp/terminal-mcp/internal/manager"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89b4fa"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#24283b")).
			Foreground(lipgloss.Color("#a9b1d6")).
			Padding(0, 1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8"))

	tableStyles = func() table.Styles {
		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#565f89")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#7aa2f7"))
		return s
	}()
)

func renderDashboard(m dashboardModel) string {
	header := headerStyle.Render("terminal state tree sessions")

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 36},
			{Title: "COMMAND", Width: 24},
			{Title: "STATUS", Width: 12},
			{Title: "AGE", Width: 10},
		}),
		table.WithRows(dashboardRows(m.rows)),
		table.WithStyles(tableStyles),
		table.WithHeight(len(m.rows)+1),
	)

	body := t.View()
	if len(m.rows) == 0 {
		body = statusStyle.Render("no active sessions")
	}

	status := fmt.Sprintf("%d session(s) — last refresh %s — q to quit",
		len(m.rows), m.lastFetch.Format(time.TimeOnly))
	if m.err != nil {
		status = errStyle.Render(fmt.Sprintf("connection error: %v", m.err))
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n", header, body, statusStyle.Render(status))
}

func dashboardRows(rows []manager.Summary) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, s := range rows {
		out = append(out, table.Row{
			s.ID,
			s.Command,
			s.Status.String(),
			formatAge(time.Since(s.CreatedAt)),
		})
	}
	return out
}

func formatAge(d time.Duration) string {
	s := int(d.Seconds())
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	if s < 3600 {
		return fmt.Sprintf("%dm%ds", s/60, s%60)
	}
	h := s / 3600
	mm := (s % 3600) / 60
	return fmt.Sprintf("%dh%dm", h, mm)
}
