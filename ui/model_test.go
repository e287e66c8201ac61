package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm
}

func sized(t *testing.T, submit SubmitFunc) Model {
	t.Helper()
	return update(t, NewModel(submit), tea.WindowSizeMsg{Width: 80, Height: 10})
}

func TestModelAppendsOutputInOrder(t *testing.T) {
	m := sized(t, nil)
	for _, line := range []string{"220 ready", "", "500 'x': command not understood."} {
		m = update(t, m, OutputLineMsg(line))
	}

	got := m.DisplayLines()
	want := []string{"220 ready", "", "500 'x': command not understood."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("DisplayLines() = %q, want %q", got, want)
	}
	if !strings.Contains(m.View(), "220 ready") {
		t.Error("View() should render the transcript")
	}
}

func TestModelResetOutputReplacesTranscript(t *testing.T) {
	m := sized(t, nil)
	m = update(t, m, OutputLineMsg("partial"))
	m = update(t, m, ResetOutputMsg("read: connection reset by peer"))

	got := m.DisplayLines()
	if len(got) != 1 || got[0] != "read: connection reset by peer" {
		t.Errorf("DisplayLines() = %q", got)
	}
}

func TestModelStatus(t *testing.T) {
	m := sized(t, nil)
	m = update(t, m, StatusTextMsg("Connected to localhost:4444"))

	if m.Status() != "Connected to localhost:4444" {
		t.Errorf("Status() = %q", m.Status())
	}
	if !strings.Contains(m.View(), "Connected to localhost:4444") {
		t.Error("View() should render the status line")
	}
}

func TestModelEnterSubmitsAndClears(t *testing.T) {
	var submitted []string
	m := sized(t, func(line string) error {
		submitted = append(submitted, line)
		return nil
	})

	m.input.SetValue("TRACEI 10")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(submitted) != 1 || submitted[0] != "TRACEI 10" {
		t.Errorf("submitted = %q", submitted)
	}
	if m.InputValue() != "" {
		t.Errorf("InputValue() = %q, want cleared", m.InputValue())
	}

	// An empty field is still submitted.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(submitted) != 2 || submitted[1] != "" {
		t.Errorf("submitted = %q, want empty second command", submitted)
	}
}

func TestModelEnterKeepsInputOnError(t *testing.T) {
	m := sized(t, func(string) error { return errors.New("not connected") })

	m.input.SetValue("status")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.InputValue() != "status" {
		t.Errorf("InputValue() = %q, want text kept after failed submit", m.InputValue())
	}
}

func TestModelScrollKeys(t *testing.T) {
	m := sized(t, nil)
	for i := 0; i < 50; i++ {
		m = update(t, m, OutputLineMsg("line"))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	if m.viewport.Mode() != ModeScrolled {
		t.Fatal("PgUp should enter scrolled mode")
	}
	m = update(t, m, OutputLineMsg("more"))
	if !strings.Contains(m.View(), "SCROLLED (1 new)") {
		t.Error("status bar should count lines that arrived while scrolled")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlEnd})
	if m.viewport.Mode() != ModeLive {
		t.Error("Ctrl+End should return to live mode")
	}
}

func TestModelCtrlCQuits(t *testing.T) {
	m := sized(t, nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Ctrl+C should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Ctrl+C should quit")
	}
	if next.(Model).View() != "" {
		t.Error("View() should be empty while quitting")
	}
}

func TestModelEscClearsThenQuits(t *testing.T) {
	m := sized(t, nil)
	m.input.SetValue("typo")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Fatal("Esc with text should only clear the field")
	}
	m = next.(Model)
	if m.InputValue() != "" {
		t.Errorf("InputValue() = %q, want cleared", m.InputValue())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Esc on an empty field should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Esc on an empty field should quit")
	}
}

func TestModelDisplayLinesFilterScreenClears(t *testing.T) {
	m := sized(t, nil)
	m = update(t, m, OutputLineMsg("\x1b[2J\x1b[Hstatus ok"))

	got := m.DisplayLines()
	if len(got) != 1 || got[0] != "status ok" {
		t.Errorf("DisplayLines() = %q, want the line without the clear sequence", got)
	}
}
