package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

func quietTestLogger() *log.Logger { return log.New(io.Discard) }

func testEntries() []notebookmap.Entry {
	return []notebookmap.Entry{
		{Pair: notebookmap.Pair{A: "react", B: "svelte"}, ID: "nb-1"},
		{Pair: notebookmap.Pair{A: "react", B: "vue"}, ID: "nb-2"},
		{Pair: notebookmap.Pair{A: "vue", B: "react"}, ID: "nb-3"},
	}
}

func press(m PairListModel, msgs ...tea.Msg) PairListModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(PairListModel)
	}
	return m
}

func TestPairListNavigation(t *testing.T) {
	m := NewPairListModel(testEntries())
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected == nil || m.Selected.ID != "nb-2" {
		t.Errorf("Selected = %+v, want nb-2", m.Selected)
	}
}

func TestPairListFilter(t *testing.T) {
	m := NewPairListModel(testEntries())
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("svel")})
	if len(m.Visible) != 1 || m.Visible[0].ID != "nb-1" {
		t.Fatalf("Visible = %+v", m.Visible)
	}
	if m.Filter() != "svel" {
		t.Errorf("Filter() = %q", m.Filter())
	}
	if !strings.Contains(m.View(), "svel") {
		t.Error("View should show the filter")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if len(m.Visible) != 3 {
		t.Errorf("clearing the filter should show all pairs, got %d", len(m.Visible))
	}
}

func TestPairListEnterOnEmpty(t *testing.T) {
	m := press(NewPairListModel(testEntries()), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != nil {
		t.Error("enter on an empty list should select nothing")
	}
	if !strings.Contains(m.View(), "[0/0]") {
		t.Errorf("View = %q", m.View())
	}
}
