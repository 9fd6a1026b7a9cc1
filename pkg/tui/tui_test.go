package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krisarmstrong/cdp-go/pkg/neighbor"
)

func TestModel_QuitsOnQ(t *testing.T) {
	m := newModel(neighbor.New())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestModel_TickRefreshesNeighbors(t *testing.T) {
	table := neighbor.New()
	m := newModel(table)
	if len(m.neighbors) != 0 {
		t.Fatalf("expected empty table, got %d neighbors", len(m.neighbors))
	}

	if _, err := table.Receive("eth0", []byte{0, 1, 2, 3, 4, 5}, "switch", nil, time.Now()); err != nil {
		t.Fatalf("Receive: %v", err)
	}

	updated, cmd := m.Update(tickMsg(time.Now()))
	mm := updated.(model)
	if len(mm.neighbors) != 1 {
		t.Fatalf("expected 1 neighbor after tick, got %d", len(mm.neighbors))
	}
	if cmd == nil {
		t.Error("expected tick to schedule another tick command")
	}
}

func TestModel_ViewRendersHeaderAndNeighbor(t *testing.T) {
	table := neighbor.New()
	if _, err := table.Receive("eth0", []byte{0, 1, 2, 3, 4, 5}, "switch", nil, time.Now()); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	m := newModel(table)

	view := m.View()
	if !strings.Contains(view, "LINK") {
		t.Error("expected header row in view")
	}
	if !strings.Contains(view, "eth0") {
		t.Error("expected the neighbor's link in view")
	}
}

func TestModel_ViewHandlesEmptyTable(t *testing.T) {
	m := newModel(neighbor.New())
	view := m.View()
	if !strings.Contains(view, "no neighbors discovered yet") {
		t.Error("expected empty-state message in view")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactlyten", 10, "exactlyten"},
		{"waytoolongstring", 8, "waytool…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(90 * time.Second); got != "00:01:30" {
		t.Errorf("unexpected duration string %q", got)
	}
	if got := formatDuration(-5 * time.Second); got != "00:00:00" {
		t.Errorf("expected negative duration to clamp to zero, got %q", got)
	}
}
