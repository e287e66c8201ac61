package ui

import (
	"strings"
)

// ScrollMode indicates whether the viewport is live or scrolled back.
type ScrollMode int

const (
	// ModeLive means the viewport is pinned to the bottom, showing newest lines.
	ModeLive ScrollMode = iota
	// ModeScrolled means the user has scrolled up and the view is locked.
	ModeScrolled
)

// ScrollbackViewport renders a window into the scrollback buffer.
// Only visible lines are processed.
type ScrollbackViewport struct {
	buffer     *ScrollbackBuffer
	offset     int        // Lines from bottom (0 = showing newest)
	height     int        // Visible rows
	width      int        // Terminal width
	mode       ScrollMode // Live or Scrolled
	newLines   int        // Count of new lines since scrolling back
	cacheValid bool
	cachedView string
}

// NewScrollbackViewport creates a viewport for the given buffer.
func NewScrollbackViewport(buffer *ScrollbackBuffer) *ScrollbackViewport {
	return &ScrollbackViewport{
		buffer: buffer,
		mode:   ModeLive,
	}
}

// SetDimensions updates the viewport size.
func (v *ScrollbackViewport) SetDimensions(width, height int) {
	if v.width != width || v.height != height {
		v.width = width
		v.height = height
		v.cacheValid = false
	}
}

// OnNewLines is called when new lines are appended to the buffer.
// In live mode, the view auto-scrolls. In scrolled mode, offset is adjusted
// to maintain the user's reading position.
func (v *ScrollbackViewport) OnNewLines(count int) {
	if v.mode == ModeScrolled {
		v.offset += count
		v.newLines += count
	}
	v.cacheValid = false
}

// ScrollUp moves the view up (towards older lines).
func (v *ScrollbackViewport) ScrollUp(lines int) {
	maxOffset := v.buffer.Count() - v.height
	if maxOffset < 0 {
		maxOffset = 0
	}

	v.offset += lines
	if v.offset > maxOffset {
		v.offset = maxOffset
	}

	if v.offset > 0 {
		v.mode = ModeScrolled
	}
	v.cacheValid = false
}

// ScrollDown moves the view down (towards newer lines).
func (v *ScrollbackViewport) ScrollDown(lines int) {
	v.offset -= lines
	if v.offset <= 0 {
		v.GotoBottom()
		return
	}
	v.cacheValid = false
}

// PageUp scrolls up by one page.
func (v *ScrollbackViewport) PageUp() {
	v.ScrollUp(max(v.height-1, 1))
}

// PageDown scrolls down by one page.
func (v *ScrollbackViewport) PageDown() {
	v.ScrollDown(max(v.height-1, 1))
}

// GotoBottom returns to live mode (pinned to newest lines).
func (v *ScrollbackViewport) GotoBottom() {
	v.offset = 0
	v.mode = ModeLive
	v.newLines = 0
	v.cacheValid = false
}

// GotoTop scrolls to the oldest line.
func (v *ScrollbackViewport) GotoTop() {
	v.ScrollUp(v.buffer.Count())
}

// Mode returns the current scroll mode.
func (v *ScrollbackViewport) Mode() ScrollMode {
	return v.mode
}

// NewLineCount returns the number of new lines since the user scrolled back.
func (v *ScrollbackViewport) NewLineCount() int {
	return v.newLines
}

// InvalidateCache forces a re-render on the next View() call.
func (v *ScrollbackViewport) InvalidateCache() {
	v.cacheValid = false
}

// View renders the visible portion of the scrollback buffer.
// Always returns exactly height lines, content pushed to the bottom.
func (v *ScrollbackViewport) View() string {
	if v.cacheValid {
		return v.cachedView
	}

	if v.height <= 0 {
		v.cachedView = ""
		v.cacheValid = true
		return v.cachedView
	}

	var b strings.Builder
	b.Grow(v.height * (v.width + 1))

	totalLines := v.buffer.Count()

	// endIdx is the index just past the last visible line (exclusive)
	endIdx := totalLines - v.offset
	if endIdx > totalLines {
		endIdx = totalLines
	}
	startIdx := endIdx - v.height
	if startIdx < 0 {
		startIdx = 0
	}

	// Pad with empty lines at the TOP if we don't have enough content
	emptyLines := v.height - (endIdx - startIdx)
	for i := 0; i < emptyLines; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
	}

	for i := startIdx; i < endIdx; i++ {
		if emptyLines > 0 || i > startIdx {
			b.WriteByte('\n')
		}
		b.WriteString(v.buffer.At(i))
	}

	v.cachedView = b.String()
	v.cacheValid = true
	return v.cachedView
}

// AtBottom returns true if the viewport is showing the newest lines.
func (v *ScrollbackViewport) AtBottom() bool {
	return v.offset == 0
}
