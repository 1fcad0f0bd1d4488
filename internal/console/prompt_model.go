package console

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type promptModel struct {
	input     textinput.Model
	history   []string
	histPos   int
	draft     string
	value     string
	done      bool
	cancelled bool
}

func newPromptModel(prompt string, history []string) promptModel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Focus()
	return promptModel{
		input:   ti,
		history: history,
		histPos: len(history),
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case tea.KeyUp:
			if m.histPos > 0 {
				if m.histPos == len(m.history) {
					m.draft = m.input.Value()
				}
				m.histPos--
				m.input.SetValue(m.history[m.histPos])
				m.input.CursorEnd()
			}
			return m, nil
		case tea.KeyDown:
			if m.histPos < len(m.history) {
				m.histPos++
				if m.histPos == len(m.history) {
					m.input.SetValue(m.draft)
				} else {
					m.input.SetValue(m.history[m.histPos])
				}
				m.input.CursorEnd()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		// leave the submitted line in the scrollback
		return m.input.Prompt + m.value + "\n"
	}
	return m.input.View()
}
