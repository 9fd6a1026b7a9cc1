// Package tui implements a live terminal viewer over the neighbor
// table (§6 domain stack), refreshed on a tick.
//
// Grounded on pkg/interactive/interactive.go's bubbletea model: the
// same Init/Update/View shape, the same lipgloss style palette and
// tickMsg-driven refresh loop, and the same Run(...) entrypoint that
// builds a model and hands it to tea.NewProgram. The teacher's menu,
// value-input, error-injection, and hex-dump views have no CDP
// analogue and are dropped; what remains is the part of the teacher's
// TUI that every viewer needs regardless of domain — a title bar, a
// status line, and a periodically refreshed list. The key-binding
// declaration style (bubbles/key, a name plus its help text) is
// borrowed from the neighbor-discovery pack repo's own TUI, which
// views the same kind of data this package does.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krisarmstrong/cdp-go/pkg/inspect"
	"github.com/krisarmstrong/cdp-go/pkg/neighbor"
)

var keys = struct {
	Quit    key.Binding
	Refresh key.Binding
}{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	freshStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const refreshInterval = time.Second

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	table     *neighbor.Table
	neighbors []inspect.Neighbor
	startTime time.Time
	now       time.Time
}

func newModel(table *neighbor.Table) model {
	now := time.Now()
	return model{
		table:     table,
		neighbors: inspect.Snapshot(table),
		startTime: now,
		now:       now,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.EnterAltScreen)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			m.neighbors = inspect.Snapshot(m.table)
			m.now = time.Now()
			return m, nil
		}
	case tickMsg:
		m.neighbors = inspect.Snapshot(m.table)
		m.now = time.Time(msg)
		return m, tickCmd()
	}
	return m, nil
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" cdpd neighbor viewer "))
	s.WriteString("\n\n")

	stats := fmt.Sprintf("Uptime: %s  |  Neighbors: %d  |  Last refresh: %s",
		formatDuration(m.now.Sub(m.startTime)), len(m.neighbors), m.now.Format("15:04:05"))
	s.WriteString(statsStyle.Render(stats))
	s.WriteString("\n\n")

	s.WriteString(headerStyle.Render(fmt.Sprintf("%-16s %-18s %-26s %-10s %-7s %-6s",
		"LINK", "MAC", "DEVICE ID", "PLATFORM", "DUPLEX", "HOLD")))
	s.WriteString("\n")

	if len(m.neighbors) == 0 {
		s.WriteString(helpStyle.Render("(no neighbors discovered yet)"))
		s.WriteString("\n")
	}

	for _, n := range m.neighbors {
		remaining := n.ExpiresAt.Sub(m.now)
		row := fmt.Sprintf("%-16s %-18s %-26s %-10s %-7s %-6s",
			truncate(n.Link, 16), truncate(n.MAC, 18), truncate(n.DeviceID, 26),
			truncate(n.Platform, 10), n.Duplex.String(), formatDuration(remaining))
		if remaining <= 0 {
			s.WriteString(staleStyle.Render(row))
		} else {
			s.WriteString(freshStyle.Render(row))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("%s: %s  |  %s: %s",
		keys.Quit.Help().Key, keys.Quit.Help().Desc,
		keys.Refresh.Help().Key, keys.Refresh.Help().Desc)))

	return s.String()
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mm := d / time.Minute
	d -= mm * time.Minute
	sec := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, mm, sec)
}

// Run starts the interactive neighbor viewer over table, blocking
// until the user quits.
func Run(table *neighbor.Table) error {
	p := tea.NewProgram(newModel(table), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
