package ui

// OutputLineMsg is one decoded server line for the scrollback.
type OutputLineMsg string

// ResetOutputMsg replaces the scrollback with a single text block.
type ResetOutputMsg string

// StatusTextMsg replaces the status line.
type StatusTextMsg string
