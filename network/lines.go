package network

import "bytes"

// LineBuffer accumulates raw bytes and splits them into LF-terminated lines.
// A single CR immediately before the LF is stripped. Empty lines are kept.
type LineBuffer struct {
	buf []byte
}

// NewLineBuffer creates an empty line buffer.
func NewLineBuffer() *LineBuffer {
	return &LineBuffer{buf: make([]byte, 0, 4096)}
}

// Feed appends p and returns every line completed by it, in order.
// Returned slices are owned by the caller.
func (b *LineBuffer) Feed(p []byte) [][]byte {
	b.buf = append(b.buf, p...)

	var lines [][]byte
	start := 0
	for {
		i := bytes.IndexByte(b.buf[start:], '\n')
		if i < 0 {
			break
		}
		end := start + i
		line := b.buf[start:end]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		lines = append(lines, bytes.Clone(line))
		start = end + 1
	}

	if start > 0 {
		// Shift the unterminated tail to the front
		n := copy(b.buf, b.buf[start:])
		b.buf = b.buf[:n]
	}
	return lines
}

// Pending returns the bytes of the current unterminated line.
func (b *LineBuffer) Pending() []byte {
	return b.buf
}

// Reset drops any pending bytes.
func (b *LineBuffer) Reset() {
	b.buf = b.buf[:0]
}
