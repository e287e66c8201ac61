package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputModel is the single-line command field.
type InputModel struct {
	textinput textinput.Model
	width     int
}

// NewInputModel creates a focused input field.
func NewInputModel(styles Styles) InputModel {
	ti := textinput.New()
	ti.Placeholder = "AFD command"
	ti.Prompt = "> "
	ti.PromptStyle = styles.InputPrompt
	ti.TextStyle = styles.InputText
	ti.CharLimit = 0 // No limit
	ti.Width = 80
	ti.Focus()

	return InputModel{textinput: ti}
}

// SetWidth updates the input width.
func (m *InputModel) SetWidth(w int) {
	m.width = w
	m.textinput.Width = max(w-len(m.textinput.Prompt)-1, 1)
}

// Value returns the current input text.
func (m *InputModel) Value() string {
	return m.textinput.Value()
}

// SetValue sets the input text.
func (m *InputModel) SetValue(s string) {
	m.textinput.SetValue(s)
}

// Reset clears the input.
func (m *InputModel) Reset() {
	m.textinput.Reset()
}

// Update handles key events for the input.
func (m *InputModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyCtrlU {
		m.textinput.SetValue("")
		return nil
	}
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return cmd
}

// View renders the input line.
func (m *InputModel) View() string {
	return m.textinput.View()
}
