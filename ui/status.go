package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// StatusBar displays the connection status line and the scroll indicator.
type StatusBar struct {
	text       string
	scrollMode ScrollMode
	newLines   int
	width      int
	styles     Styles
}

// NewStatusBar creates a new status bar.
func NewStatusBar(styles Styles) StatusBar {
	return StatusBar{styles: styles}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetText replaces the status line.
func (s *StatusBar) SetText(text string) {
	s.text = text
}

// Text returns the current status line.
func (s *StatusBar) Text() string {
	return s.text
}

// SetScrollMode updates the scroll mode indicator.
func (s *StatusBar) SetScrollMode(mode ScrollMode, newLines int) {
	s.scrollMode = mode
	s.newLines = newLines
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var right string
	switch s.scrollMode {
	case ModeLive:
		right = s.styles.StatusLive.Render("LIVE")
	case ModeScrolled:
		if s.newLines > 0 {
			right = s.styles.StatusScrolled.Render(fmt.Sprintf("SCROLLED (%d new)", s.newLines))
		} else {
			right = s.styles.StatusScrolled.Render("SCROLLED")
		}
	}

	// Truncate the status text so the indicator always fits
	text := s.text
	if s.width > 0 {
		room := s.width - VisibleLen(right) - 3
		if room < 1 {
			room = 1
		}
		text = runewidth.Truncate(text, room, "…")
	}
	left := s.styles.StatusText.Render(text)

	padding := s.width - VisibleLen(left) - VisibleLen(right) - 2
	if padding < 1 {
		padding = 1
	}

	return left + strings.Repeat(" ", padding) + right
}
