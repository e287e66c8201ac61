package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/afdc/internal/buffer"
)

// Queue sizing for messages headed to the Bubble Tea loop.
const (
	queueInitialCap = 100
	queueHighWater  = 50000
)

// BubbleTeaUI implements Surface using Bubble Tea.
// Output and Quit are queued in order and replayed onto the program's
// event loop by a single pump goroutine. Nothing is dropped: a producer
// that gets far ahead of rendering waits. Status updates bypass the queue
// and only the latest is kept, so SetStatus never blocks, even when
// called from the event loop itself.
type BubbleTeaUI struct {
	program *tea.Program
	opts    []tea.ProgramOption
	submit  SubmitFunc

	// Ordered queue towards program.Send
	queueMu     sync.Mutex
	queueClosed bool
	queueIn     chan<- tea.Msg
	queueOut    <-chan tea.Msg

	// Latest status not yet handed to the program
	statusMu    sync.Mutex
	status      *string
	statusReady chan struct{}

	final Model

	done     chan struct{}
	doneOnce sync.Once
}

// NewBubbleTeaUI creates a new Bubble Tea-based UI. With no options it
// takes over the terminal using the alternate screen.
func NewBubbleTeaUI(opts ...tea.ProgramOption) *BubbleTeaUI {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	in, out := buffer.Queue[tea.Msg](queueInitialCap, queueHighWater)
	return &BubbleTeaUI{
		opts:        opts,
		queueIn:     in,
		queueOut:    out,
		statusReady: make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// OnSubmit implements Surface.
func (b *BubbleTeaUI) OnSubmit(fn SubmitFunc) {
	b.submit = fn
}

// AppendOutput implements Surface.
func (b *BubbleTeaUI) AppendOutput(line string) {
	b.send(OutputLineMsg(line))
}

// ResetOutput implements Surface.
func (b *BubbleTeaUI) ResetOutput(text string) {
	b.send(ResetOutputMsg(text))
}

// SetStatus implements Surface.
func (b *BubbleTeaUI) SetStatus(text string) {
	b.statusMu.Lock()
	b.status = &text
	b.statusMu.Unlock()

	select {
	case b.statusReady <- struct{}{}:
	default:
	}
}

// Quit asks the program to exit once everything queued before it is shown.
func (b *BubbleTeaUI) Quit() {
	b.send(tea.Quit())
}

// Done returns a channel that closes when the UI exits.
func (b *BubbleTeaUI) Done() <-chan struct{} {
	return b.done
}

// send queues msg for the program. After the UI exits it is a no-op.
func (b *BubbleTeaUI) send(msg tea.Msg) {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	if b.queueClosed {
		return
	}
	b.queueIn <- msg
}

// flushStatus hands the pending status, if any, to the program.
func (b *BubbleTeaUI) flushStatus() {
	b.statusMu.Lock()
	text := b.status
	b.status = nil
	b.statusMu.Unlock()

	if text != nil {
		b.program.Send(StatusTextMsg(*text))
	}
}

// pump is the only caller of program.Send. Send blocks until the program
// loop starts, which keeps order intact, and is a no-op once it has
// finished.
func (b *BubbleTeaUI) pump() {
	for {
		select {
		case msg, ok := <-b.queueOut:
			if !ok {
				return
			}
			if _, quit := msg.(tea.QuitMsg); quit {
				b.flushStatus()
			}
			b.program.Send(msg)

		case <-b.statusReady:
			b.flushStatus()
		}
	}
}

// Run starts the TUI and blocks until exit.
func (b *BubbleTeaUI) Run() error {
	b.program = tea.NewProgram(NewModel(b.submit), b.opts...)

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		b.pump()
	}()

	final, err := b.program.Run()
	if m, ok := final.(Model); ok {
		b.final = m
	}

	b.queueMu.Lock()
	b.queueClosed = true
	close(b.queueIn)
	b.queueMu.Unlock()
	<-pumpDone

	b.doneOnce.Do(func() {
		close(b.done)
	})
	return err
}
