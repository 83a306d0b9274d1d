package networks

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RunSelection is a variable alias for runSelection, so it can be stubbed in tests.
var RunSelection = runSelection

type model struct {
	Label    string
	Choices  []string
	Details  []string
	cursor   int
	selected int
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j":
		m.cursor = min(m.cursor+1, len(m.Choices)-1)
	case "enter", " ":
		m.selected = m.cursor
		return m, tea.Quit
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.Label + "\n")
	b.WriteString("Use ↑/↓ to navigate, press space or enter to select, q to cancel\n\n")
	for i, choice := range m.Choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %-16s %s\n", cursor, choice, m.Details[i])
	}
	return b.String()
}

// NewModel creates a selection model; details[i] is shown next to choices[i]
func NewModel(label string, choices, details []string) model {
	return model{
		Label:    label,
		Choices:  choices,
		Details:  details,
		selected: -1,
	}
}

func runSelection(label string, choices, details []string) (string, error) {
	p := tea.NewProgram(NewModel(label, choices, details))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	selIdx := finalModel.(model).selected
	if selIdx < 0 || selIdx >= len(choices) {
		return "", fmt.Errorf("no network selected")
	}
	return choices[selIdx], nil
}
