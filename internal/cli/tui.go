package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// PairListModel is the bubbletea model behind "map browse". Typing filters
// the pairs by package name; enter selects the highlighted pair.
type PairListModel struct {
	All      []notebookmap.Entry
	Visible  []notebookmap.Entry
	Cursor   int
	Offset   int
	Height   int
	Selected *notebookmap.Entry

	filter textinput.Model
}

// NewPairListModel creates a list over entries.
func NewPairListModel(entries []notebookmap.Entry) PairListModel {
	fi := textinput.New()
	fi.Prompt = "filter: "
	fi.Placeholder = "package name"
	fi.CharLimit = 64
	fi.Width = 30
	fi.Focus()
	return PairListModel{All: entries, Visible: entries, Height: 15, filter: fi}
}

// Filter returns the current filter text.
func (m PairListModel) Filter() string { return m.filter.Value() }

func (m PairListModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m PairListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.move(-1)
		case tea.KeyDown:
			m.move(1)
		case tea.KeyEnter:
			if len(m.Visible) == 0 {
				return m, nil
			}
			sel := m.Visible[m.Cursor]
			m.Selected = &sel
			return m, tea.Quit
		default:
			before := m.filter.Value()
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			if m.filter.Value() != before {
				m.applyFilter()
			}
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *PairListModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Visible) {
		return
	}
	m.Cursor = next
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *PairListModel) applyFilter() {
	m.Cursor, m.Offset = 0, 0
	f := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if f == "" {
		m.Visible = m.All
		return
	}
	m.Visible = nil
	for _, e := range m.All {
		if strings.Contains(e.A, f) || strings.Contains(e.B, f) {
			m.Visible = append(m.Visible, e)
		}
	}
}

func (m PairListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Notebooks"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  type to filter  esc quit"))
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		e := m.Visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, e.A, e.B, e.ID})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package A", "Package B", "Notebook").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case m.Offset+row == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.Visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.Visible))))
	return b.String()
}
