// Package session wires one AFD connection to one user interface.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/drake/afdc/config"
	"github.com/drake/afdc/logger"
	"github.com/drake/afdc/network"
	"github.com/drake/afdc/ui"
)

// StatusNotConnected is shown when a command is submitted without a
// connection.
const StatusNotConnected = "Not connected"

// shutdownTimeout bounds how long Run waits for the reader after the
// socket is closed.
const shutdownTimeout = 2 * time.Second

// Session orchestrates the transport, the reader task, the sender and the
// surface. Terminal states are final: there is no reconnection.
type Session struct {
	cfg     config.Config
	surface ui.Surface

	mu     sync.Mutex
	cancel context.CancelFunc
	conn   *network.Connection
	reader *network.Reader
	sender *network.Sender
	closed bool

	connectDone chan struct{}
	closeOnce   sync.Once
}

// New creates a Session. It is passive: nothing is dialed until Run.
func New(cfg config.Config, surface ui.Surface) *Session {
	return &Session{
		cfg:         cfg,
		surface:     surface,
		connectDone: make(chan struct{}),
	}
}

// Run connects in the background and blocks on the surface until it
// exits or ctx is canceled. A failed connect leaves the surface running.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.surface.OnSubmit(s.submit)

	go s.connect(ctx)
	go func() {
		select {
		case <-ctx.Done():
			s.surface.Quit()
		case <-s.surface.Done():
		}
	}()

	err := s.surface.Run()

	s.Close()
	s.wait()
	s.logStats()
	return err
}

// Close aborts a pending connect and closes the connection. The reader
// observes the close and exits. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		cancel, conn := s.cancel, s.conn
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if conn != nil {
			if err := conn.Close(); err != nil {
				logger.Debug("close connection", "error", err)
			}
		}
	})
}

func (s *Session) connect(ctx context.Context) {
	defer close(s.connectDone)

	addr := s.cfg.Address()
	s.surface.SetStatus("Connecting to " + addr + "...")

	codec, err := network.NewCodec(s.cfg.Charset)
	if err != nil {
		logger.Error("charset", "error", err)
		s.surface.SetStatus(err.Error())
		return
	}

	logger.Info("connecting", "address", addr)
	conn, err := network.Connect(ctx, s.cfg.Host, s.cfg.Port)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("connect failed", "address", addr, "error", err)
		s.surface.SetStatus(err.Error())
		return
	}

	rh, wh, err := conn.Split()
	if err != nil {
		conn.Close()
		s.surface.SetStatus(err.Error())
		return
	}

	reader := network.NewReader(rh, codec, s.surface)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.reader = reader
	s.sender = network.NewSender(wh, codec)
	s.mu.Unlock()

	logger.Info("connected", "address", conn.Address())
	s.surface.SetStatus("Connected to " + conn.Address())

	go reader.Run()
	go monitor(ctx, conn, monitorInterval, reader.Done())
}

// submit runs on the surface's event loop, one call per submission.
func (s *Session) submit(line string) error {
	s.mu.Lock()
	sender := s.sender
	s.mu.Unlock()

	if sender == nil {
		s.surface.SetStatus(StatusNotConnected)
		return network.ErrNotConnected
	}
	if err := sender.Send(line); err != nil {
		logger.Warn("send failed", "error", err)
		s.surface.SetStatus("Send failed: " + err.Error())
		return err
	}
	return nil
}

// wait blocks until the connect attempt and the reader have finished, or
// shutdownTimeout passes.
func (s *Session) wait() {
	timeout := time.After(shutdownTimeout)
	select {
	case <-s.connectDone:
	case <-timeout:
		logger.Warn("connect did not stop in time")
		return
	}

	s.mu.Lock()
	reader := s.reader
	s.mu.Unlock()
	if reader == nil {
		return
	}
	select {
	case <-reader.Done():
		logger.Debug("reader stopped", "state", reader.State())
	case <-timeout:
		logger.Warn("reader did not stop in time")
	}
}

func (s *Session) logStats() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	logger.Info("session ended", statsArgs(conn.Stats())...)
}
