package ui

import "strings"

// ScrollbackBuffer is a ring buffer for storing terminal output lines.
// It provides O(1) append, O(1) eviction when full, and O(1) random access.
type ScrollbackBuffer struct {
	lines    []string // Fixed-size ring buffer
	head     int      // Index of oldest line
	tail     int      // Index where next line will be written
	count    int      // Current number of lines
	capacity int      // Maximum number of lines
}

// filterClearSequences removes ANSI sequences that would clear the screen,
// so a server cannot wipe the transcript.
func filterClearSequences(line string) string {
	line = strings.ReplaceAll(line, "\x1b[2J", "")   // Clear entire screen
	line = strings.ReplaceAll(line, "\x1b[H", "")    // Move cursor to home
	line = strings.ReplaceAll(line, "\x1b[0;0H", "") // Move cursor to 0,0
	line = strings.ReplaceAll(line, "\x1b[1;1H", "") // Move cursor to 1,1
	return line
}

// NewScrollbackBuffer creates a new ring buffer with the given capacity.
func NewScrollbackBuffer(capacity int) *ScrollbackBuffer {
	if capacity <= 0 {
		capacity = 100000 // Default 100k lines
	}
	return &ScrollbackBuffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// Append adds a line to the buffer. If full, the oldest line is evicted.
func (sb *ScrollbackBuffer) Append(line string) {
	sb.lines[sb.tail] = filterClearSequences(line)
	sb.tail = (sb.tail + 1) % sb.capacity

	if sb.count < sb.capacity {
		sb.count++
	} else {
		// Buffer is full, advance head to evict oldest
		sb.head = (sb.head + 1) % sb.capacity
	}
}

// Replace clears the buffer and stores text, split on newlines.
func (sb *ScrollbackBuffer) Replace(text string) {
	sb.Clear()
	for _, line := range strings.Split(text, "\n") {
		sb.Append(line)
	}
}

// Count returns the number of lines currently in the buffer.
func (sb *ScrollbackBuffer) Count() int {
	return sb.count
}

// At retrieves a line by logical index (0 = oldest, count-1 = newest).
// Returns empty string if index is out of bounds.
func (sb *ScrollbackBuffer) At(i int) string {
	if i < 0 || i >= sb.count {
		return ""
	}
	return sb.lines[(sb.head+i)%sb.capacity]
}

// Lines returns a copy of every line, oldest first.
func (sb *ScrollbackBuffer) Lines() []string {
	out := make([]string, 0, sb.count)
	for i := 0; i < sb.count; i++ {
		out = append(out, sb.At(i))
	}
	return out
}

// Clear removes all lines from the buffer.
func (sb *ScrollbackBuffer) Clear() {
	// Drop references so replaced transcripts can be collected.
	clear(sb.lines)
	sb.head = 0
	sb.tail = 0
	sb.count = 0
}
