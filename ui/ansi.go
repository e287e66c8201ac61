package ui

import "github.com/charmbracelet/x/ansi"

// VisibleLen returns the terminal cell width of s, ignoring ANSI codes.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}
