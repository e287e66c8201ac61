package network

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/drake/afdc/logger"
)

// Status texts reported when the reader stops.
const (
	StatusServerClosed = "Connection closed by server."
	StatusLocalClosed  = "Connection closed."
	statusErrorPrefix  = "Connection error: "
)

// Sink receives everything the Reader decodes.
// Implementations must be safe to call from the Reader's goroutine.
type Sink interface {
	AppendOutput(line string)
	ResetOutput(text string)
	SetStatus(text string)
}

// State is the Reader lifecycle. Closed and Failed are terminal.
type State int32

const (
	StateRunning State = iota
	StateClosed
	StateFailed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reader decodes lines from the read half and pushes them to a Sink until
// EOF or an I/O error. It runs once; there is at most one per Connection.
type Reader struct {
	src   io.Reader
	codec *Codec
	sink  Sink
	lines *LineBuffer

	// Optional, for Stats
	conn *Connection

	state   atomic.Int32
	err     error
	done    chan struct{}
	runOnce sync.Once
}

// NewReader creates a reader over src. If src is a *ReadHalf, emitted lines
// are counted in the owning connection's Stats.
func NewReader(src io.Reader, codec *Codec, sink Sink) *Reader {
	r := &Reader{
		src:   src,
		codec: codec,
		sink:  sink,
		lines: NewLineBuffer(),
		done:  make(chan struct{}),
	}
	if rh, ok := src.(*ReadHalf); ok {
		r.conn = rh.c
	}
	return r
}

// Run blocks until the stream ends and returns the terminal state.
// Calling Run again returns the state of the first run.
func (r *Reader) Run() State {
	r.runOnce.Do(r.loop)
	return r.State()
}

// State returns the current lifecycle state.
func (r *Reader) State() State {
	return State(r.state.Load())
}

// Err returns the read error that put the Reader in StateFailed.
func (r *Reader) Err() error {
	<-r.done
	return r.err
}

// Done is closed when the Reader has stopped.
func (r *Reader) Done() <-chan struct{} {
	return r.done
}

func (r *Reader) loop() {
	defer close(r.done)

	buf := make([]byte, 4096)
	for {
		n, err := r.src.Read(buf)
		if n > 0 {
			for _, line := range r.lines.Feed(buf[:n]) {
				if r.conn != nil {
					r.conn.linesEmitted.Add(1)
				}
				r.sink.AppendOutput(r.codec.Decode(line))
			}
		}
		if err != nil {
			r.finish(err)
			return
		}
	}
}

func (r *Reader) finish(err error) {
	if pending := len(r.lines.Pending()); pending > 0 {
		logger.Debug("discarding unterminated line", "bytes", pending)
		r.lines.Reset()
	}

	switch {
	// Shutting down the read side surfaces as EOF on some platforms.
	case errors.Is(err, net.ErrClosed),
		errors.Is(err, io.EOF) && r.conn != nil && r.conn.closedLocally():
		r.state.Store(int32(StateClosed))
		logger.Info("connection closed locally")
		r.sink.SetStatus(StatusLocalClosed)

	case errors.Is(err, io.EOF):
		r.state.Store(int32(StateClosed))
		logger.Info("connection closed by server")
		r.sink.SetStatus(StatusServerClosed)

	default:
		r.err = err
		r.state.Store(int32(StateFailed))
		logger.Error("read failed", "error", err)
		r.sink.ResetOutput(err.Error())
		r.sink.SetStatus(statusErrorPrefix + err.Error())
	}
}
