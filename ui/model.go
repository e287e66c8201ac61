package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scrollbackCapacity bounds the in-memory transcript.
const scrollbackCapacity = 100000

// Model is the main Bubble Tea model for the TUI: the command field on
// top, the server transcript beneath it, the status line at the bottom.
type Model struct {
	scrollback *ScrollbackBuffer
	viewport   *ScrollbackViewport
	input      InputModel
	status     StatusBar
	styles     Styles

	submit SubmitFunc

	width       int
	height      int
	quitting    bool
	initialized bool
}

// NewModel creates a new TUI model. submit may be nil.
func NewModel(submit SubmitFunc) Model {
	styles := DefaultStyles()
	scrollback := NewScrollbackBuffer(scrollbackCapacity)

	return Model{
		scrollback: scrollback,
		viewport:   NewScrollbackViewport(scrollback),
		input:      NewInputModel(styles),
		status:     NewStatusBar(styles),
		styles:     styles,
		submit:     submit,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		m.initialized = true
		return m, nil

	case OutputLineMsg:
		m.scrollback.Append(string(msg))
		m.viewport.OnNewLines(1)
		m.syncScrollStatus()
		return m, nil

	case ResetOutputMsg:
		m.scrollback.Replace(string(msg))
		m.viewport.GotoBottom()
		m.syncScrollStatus()
		return m, nil

	case StatusTextMsg:
		m.status.SetText(string(msg))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	cmd := m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		if m.submit == nil {
			return m, nil
		}
		if err := m.submit(m.input.Value()); err == nil {
			m.input.Reset()
		}
		return m, nil

	case tea.KeyEsc:
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.input.Reset()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.PageUp()
		m.syncScrollStatus()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		m.syncScrollStatus()
		return m, nil

	case tea.KeyCtrlHome:
		m.viewport.GotoTop()
		m.syncScrollStatus()
		return m, nil

	case tea.KeyCtrlEnd:
		m.viewport.GotoBottom()
		m.syncScrollStatus()
		return m, nil
	}

	cmd := m.input.Update(msg)
	return m, cmd
}

func (m *Model) syncScrollStatus() {
	m.status.SetScrollMode(m.viewport.Mode(), m.viewport.NewLineCount())
}

// updateDimensions sizes the widgets: input, separator, viewport, status.
func (m *Model) updateDimensions() {
	m.input.SetWidth(m.width)
	m.status.SetWidth(m.width)
	m.viewport.SetDimensions(m.width, max(m.height-3, 1))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.quitting {
		return ""
	}

	separator := m.styles.Separator.Render(strings.Repeat("─", m.width))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		separator,
		m.viewport.View(),
		m.styles.StatusBar.Render(m.status.View()),
	)
}

// DisplayLines returns the lines held for display, oldest first. They are
// what the screen shows, not a byte-exact log: screen-clear sequences are
// filtered out and only the newest scrollbackCapacity lines are kept.
func (m Model) DisplayLines() []string {
	return m.scrollback.Lines()
}

// Status returns the current status line.
func (m Model) Status() string {
	return m.status.Text()
}

// InputValue returns the text currently in the command field.
func (m Model) InputValue() string {
	return m.input.Value()
}
