package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// GenerationModel - Browse a laid out tree one generation at a time
// =============================================================================

// GenerationModel is the bubbletea model for the browse command. It shows
// the persons of one generation in layout order; enter opens the family of
// the selected person.
type GenerationModel struct {
	Tree   *family.Tree
	Layout *layout.Layout

	Gen    int
	Cursor int
	Height int
	Offset int
	Detail bool

	persons map[string]family.Person
}

// NewGenerationModel creates a model starting at the oldest generation.
func NewGenerationModel(t *family.Tree, l *layout.Layout) GenerationModel {
	return GenerationModel{
		Tree:    t,
		Layout:  l,
		Height:  15,
		persons: t.Index(),
	}
}

func (m GenerationModel) Init() tea.Cmd {
	return nil
}

func (m GenerationModel) row() []layout.Node {
	return m.Layout.Generation(m.Gen)
}

func (m GenerationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Detail {
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "backspace":
				m.Detail = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.row())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "left", "h", "shift+tab":
			if m.Gen > 0 {
				m.Gen--
				m.Cursor, m.Offset = 0, 0
			}
		case "right", "l", "tab":
			if m.Gen < m.Layout.Generations-1 {
				m.Gen++
				m.Cursor, m.Offset = 0, 0
			}
		case "enter":
			if len(m.row()) > 0 {
				m.Detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GenerationModel) View() string {
	if m.Detail {
		return m.detailView()
	}

	var b strings.Builder
	title := m.Tree.Name
	if title == "" {
		title = "Family tree"
	}
	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · generation %d of %d", title, m.Gen+1, m.Layout.Generations)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ generation  ↑/↓ navigate  ⏎ family  q quit"))
	b.WriteString("\n\n")

	row := m.row()
	end := min(m.Offset+m.Height, len(row))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := row[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		spouses := m.names(m.Tree.Spouses(n.ID))
		rows = append(rows, []string{cursor, n.Label, dash(n.Detail), dash(spouses), fmt.Sprint(len(m.Tree.Children(n.ID)))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Life", "Spouses", "Children").
		Rows(rows...).
		StyleFunc(func(r, col int) lipgloss.Style {
			switch {
			case r == -1:
				return headerStyle
			case m.Offset+r == m.Cursor:
				return listSelectedStyle
			case col == 2 || col == 4:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(row)), len(row))))

	return b.String()
}

func (m GenerationModel) detailView() string {
	n := m.row()[m.Cursor]
	p := m.persons[n.ID]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(p.DisplayName()))
	if life := p.Lifespan(); life != "" {
		b.WriteString("  " + StyleDim.Render(life))
	}
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Width(12).Render(label))
		b.WriteString(" " + StyleValue.Render(dash(value)) + "\n")
	}
	line("ID", p.ID)
	line("Gender", string(p.Gender))
	line("Parents", m.names(m.Tree.Parents(p.ID)))
	line("Spouses", m.names(m.Tree.Spouses(p.ID)))
	line("Children", m.names(m.Tree.Children(p.ID)))
	if p.Note != "" {
		line("Note", p.Note)
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	return b.String()
}

func (m GenerationModel) names(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.persons[id].DisplayName()
		if out[i] == "" {
			out[i] = id
		}
	}
	return strings.Join(out, ", ")
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
