package network

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var (
	// ErrNotConnected is returned by a Sender with no write half.
	ErrNotConnected = errors.New("not connected")
	// ErrMultiline is returned for input containing LF.
	ErrMultiline = errors.New("input contains a line feed")
)

// FlushWriter is a buffered writer such as *WriteHalf or *bufio.Writer.
type FlushWriter interface {
	io.Writer
	Flush() error
}

// Sender frames user input as server lines. It is the only writer of the
// write half; concurrent Send calls are serialized.
type Sender struct {
	mu    sync.Mutex
	w     FlushWriter
	codec *Codec
}

// NewSender creates a sender writing to w. A nil w yields a sender that
// reports ErrNotConnected.
func NewSender(w FlushWriter, codec *Codec) *Sender {
	return &Sender{w: w, codec: codec}
}

// Send writes line, an explicit CR, then LF, and flushes before returning.
func (s *Sender) Send(line string) error {
	if strings.ContainsRune(line, '\n') {
		return ErrMultiline
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.w == nil {
		return ErrNotConnected
	}

	payload := append(s.codec.Encode(line), '\r')
	if _, err := s.w.Write(payload); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if _, err := s.w.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
