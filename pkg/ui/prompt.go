package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptModel wraps a single textinput for short free-form answers.
type promptModel struct {
	prompt   string
	input    textinput.Model
	done     bool
	canceled bool
}

func newPromptModel(prompt, placeholder string) promptModel {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 64
	input.Width = 32
	input.Focus()

	return promptModel{prompt: prompt, input: input}
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	return m.prompt + "\n\n" + m.input.View() + "\n\n" + hintStyle.Render("enter confirm · esc cancel") + "\n"
}

// PromptUsername asks for a username. The bool is false on cancel or
// empty input.
func PromptUsername(prompt string) (string, bool) {
	program := tea.NewProgram(newPromptModel(prompt, "username"))
	final, err := program.Run()
	if err != nil {
		return "", false
	}

	m, ok := final.(promptModel)
	if !ok || m.canceled {
		return "", false
	}

	value := strings.TrimSpace(m.input.Value())
	return value, value != ""
}

type confirmModel struct {
	question string
	answer   bool
	decided  bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y":
			m.answer = true
			m.decided = true
			return m, tea.Quit
		case "n", "N", "esc", "ctrl+c", "q":
			m.decided = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	return m.question + " " + hintStyle.Render("(y/n)") + "\n"
}

// Confirm asks a yes/no question and returns the answer; cancel counts
// as no.
func Confirm(question string) bool {
	program := tea.NewProgram(confirmModel{question: question})
	final, err := program.Run()
	if err != nil {
		return false
	}
	m, ok := final.(confirmModel)
	return ok && m.answer
}
