package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all the lipgloss styles for the TUI.
type Styles struct {
	// Layout
	Separator lipgloss.Style
	StatusBar lipgloss.Style

	// Status indicators
	StatusText     lipgloss.Style
	StatusLive     lipgloss.Style
	StatusScrolled lipgloss.Style

	// Input
	InputPrompt lipgloss.Style
	InputText   lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		StatusText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")), // Muted green
		StatusLive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")), // Gray
		StatusScrolled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("179")), // Muted yellow

		InputPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		InputText: lipgloss.NewStyle(),
	}
}
