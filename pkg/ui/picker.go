package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/instagrab/pkg/session"
)

// pickerModel is a minimal bubbletea list for choosing one session.
type pickerModel struct {
	title    string
	infos    []session.Info
	cursor   int
	choice   int // index into infos, -1 while undecided
	canceled bool
}

func newPickerModel(title string, infos []session.Info) pickerModel {
	return pickerModel{title: title, infos: infos, choice: -1}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.infos)-1 {
			m.cursor++
		}
	case "enter":
		m.choice = m.cursor
		return m, tea.Quit
	case "q", "esc", "ctrl+c":
		m.canceled = true
		return m, tea.Quit
	}

	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(Title(m.title))
	b.WriteString("\n\n")

	for i, info := range m.infos {
		cursor := "  "
		line := SessionLine(info)
		if i == m.cursor {
			cursor = "> "
			line = selectedStyle.Render(SessionLine(info))
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, line)
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ move · enter select · q cancel"))
	b.WriteString("\n")

	return b.String()
}

// PickSession shows an interactive list and returns the chosen session.
// The bool is false when the user canceled or there was nothing to pick.
func PickSession(title string, infos []session.Info) (session.Info, bool) {
	if len(infos) == 0 {
		return session.Info{}, false
	}

	program := tea.NewProgram(newPickerModel(title, infos))
	final, err := program.Run()
	if err != nil {
		return session.Info{}, false
	}

	m, ok := final.(pickerModel)
	if !ok || m.canceled || m.choice < 0 {
		return session.Info{}, false
	}
	return m.infos[m.choice], true
}
