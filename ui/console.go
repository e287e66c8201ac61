package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/cancelreader"
)

// ConsoleUI implements Surface on plain line-oriented streams
// (stdin/stdout when not attached to a terminal).
type ConsoleUI struct {
	in  io.Reader
	out io.Writer

	submit SubmitFunc

	mu         sync.Mutex // serializes writes to out
	lastStatus string

	reader   cancelreader.CancelReader
	readerMu sync.Mutex
	quit     bool

	done     chan struct{}
	doneOnce sync.Once
}

// NewConsoleUI creates a console surface reading commands from in and
// writing the transcript to out.
func NewConsoleUI(in io.Reader, out io.Writer) *ConsoleUI {
	return &ConsoleUI{
		in:   in,
		out:  out,
		done: make(chan struct{}),
	}
}

// OnSubmit implements Surface.
func (c *ConsoleUI) OnSubmit(fn SubmitFunc) {
	c.submit = fn
}

// AppendOutput implements Surface.
func (c *ConsoleUI) AppendOutput(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, filterClearSequences(line))
}

// ResetOutput implements Surface. A stream cannot be rewritten, so the
// replacement is printed as a marked block.
func (c *ConsoleUI) ResetOutput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(c.out, "!! "+line)
	}
}

// SetStatus implements Surface. Repeated identical statuses print once.
func (c *ConsoleUI) SetStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == c.lastStatus {
		return
	}
	c.lastStatus = text
	fmt.Fprintf(c.out, "[%s]\n", text)
}

// Run reads one command per line until input ends or Quit is called.
func (c *ConsoleUI) Run() error {
	defer c.doneOnce.Do(func() { close(c.done) })

	c.readerMu.Lock()
	if c.quit {
		c.readerMu.Unlock()
		return nil
	}
	r, err := cancelreader.NewReader(c.in)
	if err != nil {
		c.readerMu.Unlock()
		return fmt.Errorf("console input: %w", err)
	}
	c.reader = r
	c.readerMu.Unlock()
	defer r.Close()

	// No line length limit: a command is whatever precedes the newline.
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if errors.Is(err, cancelreader.ErrCanceled) {
			return nil
		}
		if line != "" && c.submit != nil {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			// Errors are reported by the handler through SetStatus.
			_ = c.submit(line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Quit stops Run. A blocked read is canceled where the platform allows it.
func (c *ConsoleUI) Quit() {
	c.readerMu.Lock()
	defer c.readerMu.Unlock()
	c.quit = true
	if c.reader != nil {
		c.reader.Cancel()
	}
}

// Done returns a channel that closes when Run has returned.
func (c *ConsoleUI) Done() <-chan struct{} {
	return c.done
}
