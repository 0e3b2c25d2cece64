package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
)

func browseModel(t *testing.T) GenerationModel {
	t.Helper()
	tree := &family.Tree{
		Name: "Smith",
		Persons: []family.Person{
			{ID: "ann", Name: "Ann", Birth: &family.Date{Year: 1920}},
			{ID: "bob", Name: "Bob"},
			{ID: "carl", Name: "Carl", Note: "moved away"},
		},
		Relations: []family.Relation{
			{Type: family.RelationSpouse, From: "ann", To: "bob"},
			{Type: family.RelationParent, From: "ann", To: "carl"},
			{Type: family.RelationParent, From: "bob", To: "carl"},
		},
	}
	l, err := layout.Compute(tree, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return NewGenerationModel(tree, l)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m GenerationModel, keys ...string) (GenerationModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(GenerationModel)
	}
	return m, cmd
}

func TestGenerationModelNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		gen, cur   int
		wantDetail bool
	}{
		{"start", nil, 0, 0, false},
		{"down", []string{"down"}, 0, 1, false},
		{"down stops at end", []string{"down", "down", "down"}, 0, 1, false},
		{"up stops at start", []string{"up", "k"}, 0, 0, false},
		{"next generation resets cursor", []string{"j", "right"}, 1, 0, false},
		{"last generation", []string{"right", "right", "l"}, 1, 0, false},
		{"back", []string{"right", "left"}, 0, 0, false},
		{"first generation", []string{"left", "h"}, 0, 0, false},
		{"open detail", []string{"enter"}, 0, 0, true},
		{"close detail", []string{"enter", "esc"}, 0, 0, false},
		{"keys ignored in detail", []string{"enter", "down"}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(browseModel(t), tt.keys...)
			if m.Gen != tt.gen || m.Cursor != tt.cur || m.Detail != tt.wantDetail {
				t.Errorf("gen=%d cursor=%d detail=%v, want %d %d %v", m.Gen, m.Cursor, m.Detail, tt.gen, tt.cur, tt.wantDetail)
			}
		})
	}
}

func TestGenerationModelQuit(t *testing.T) {
	for _, keys := range [][]string{{"q"}, {"esc"}, {"enter", "q"}} {
		if _, cmd := press(browseModel(t), keys...); cmd == nil {
			t.Errorf("%v: expected quit command", keys)
		} else if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: command is not quit", keys)
		}
	}
}

func TestGenerationModelView(t *testing.T) {
	m := browseModel(t)
	view := m.View()
	for _, want := range []string{"Smith", "generation 1 of 2", "Ann", "Bob", "b. 1920"} {
		if !strings.Contains(view, want) {
			t.Errorf("generation view missing %q", want)
		}
	}

	m, _ = press(m, "right", "enter")
	view = m.View()
	for _, want := range []string{"Carl", "Ann, Bob", "moved away"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}
}

func TestGenerationModelResize(t *testing.T) {
	next, _ := browseModel(t).Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if m := next.(GenerationModel); m.Height != 5 {
		t.Errorf("height = %d, want minimum 5", m.Height)
	}
}
