// Package afdtest runs a fake AFD daemon on a loopback port for tests.
// It speaks the daemon's reply conventions: a 220 greeting, 221 on QUIT and
// 502 for anything it does not understand.
package afdtest

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Greeting is the banner sent to every new client.
const Greeting = "220 afdtest AFD server 1.4.10 (Version 1.4.10) ready.\r\n"

// UnknownReply answers any command without a scripted reply.
const UnknownReply = "502 Service not implemented. See help for commands."

// Option configures a Server.
type Option func(*Server)

// WithoutGreeting suppresses the banner.
func WithoutGreeting() Option {
	return func(s *Server) { s.greeting = "" }
}

// WithReply overrides the reply for one command (without CR LF).
func WithReply(cmd, reply string) Option {
	return func(s *Server) { s.replies[cmd] = reply }
}

// Server is a single-listener fake daemon.
type Server struct {
	t        testing.TB
	ln       net.Listener
	greeting string
	replies  map[string]string

	mu        sync.Mutex
	conns     []net.Conn
	received  []string // raw lines as read, terminator included
	closed    bool
	connected chan struct{}
	newData   chan struct{}
	clientEOF chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Start listens on 127.0.0.1 and serves until the test ends.
func Start(t testing.TB, opts ...Option) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("afdtest: listen: %v", err)
	}

	s := &Server{
		t:         t,
		ln:        ln,
		greeting:  Greeting,
		replies:   make(map[string]string),
		connected: make(chan struct{}, 16),
		newData:   make(chan struct{}, 1),
		clientEOF: make(chan struct{}, 16),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(1)
	go s.acceptLoop()
	t.Cleanup(s.Close)
	return s
}

// Host returns the listener host.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.ln.Addr().String())
	return host
}

// Port returns the listener port.
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.ln.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

// WaitConnected blocks until a client has been accepted.
func (s *Server) WaitConnected(timeout time.Duration) {
	s.t.Helper()
	select {
	case <-s.connected:
	case <-time.After(timeout):
		s.t.Fatalf("afdtest: no client connected within %v", timeout)
	}
}

// WaitClientEOF blocks until a client has ended its outbound direction.
func (s *Server) WaitClientEOF(timeout time.Duration) {
	s.t.Helper()
	select {
	case <-s.clientEOF:
	case <-time.After(timeout):
		s.t.Fatalf("afdtest: no client EOF within %v", timeout)
	}
}

// Send writes raw bytes to every connected client.
func (s *Server) Send(data string) {
	s.t.Helper()
	s.mu.Lock()
	conns := append([]net.Conn(nil), s.conns...)
	s.mu.Unlock()
	for _, c := range conns {
		if _, err := c.Write([]byte(data)); err != nil {
			s.t.Errorf("afdtest: write: %v", err)
		}
	}
}

// Received returns every raw line read so far.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

// WaitReceived blocks until at least n lines have arrived.
func (s *Server) WaitReceived(n int, timeout time.Duration) []string {
	s.t.Helper()
	deadline := time.After(timeout)
	for {
		if got := s.Received(); len(got) >= n {
			return got
		}
		select {
		case <-s.newData:
		case <-deadline:
			s.t.Fatalf("afdtest: wanted %d lines within %v, got %q", n, timeout, s.Received())
		}
	}
}

// Hangup closes every client connection in an orderly way.
func (s *Server) Hangup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

// Reset aborts every client connection so the peer sees a reset.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		if tc, ok := c.(*net.TCPConn); ok {
			tc.SetLinger(0)
		}
		c.Close()
	}
	s.conns = nil
}

// Close stops the listener and drops all clients.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.ln.Close()
		s.Hangup()
		s.wg.Wait()
	})
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns = append(s.conns, conn)
		s.mu.Unlock()

		if s.greeting != "" {
			conn.Write([]byte(s.greeting))
		}
		select {
		case s.connected <- struct{}{}:
		default:
		}

		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()

	r := bufio.NewReader(conn)
	for {
		raw, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				select {
				case s.clientEOF <- struct{}{}:
				default:
				}
			}
			return
		}

		s.mu.Lock()
		s.received = append(s.received, raw)
		s.mu.Unlock()
		select {
		case s.newData <- struct{}{}:
		default:
		}

		cmd := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if reply, ok := s.replies[cmd]; ok {
			conn.Write([]byte(reply + "\r\n"))
			continue
		}
		switch strings.ToUpper(cmd) {
		case "QUIT":
			conn.Write([]byte("221 Goodbye.\r\n"))
			conn.Close()
			return
		case "HELP":
			conn.Write([]byte("214- The following commands are recognized (* =>unimplemented).\r\n"))
			conn.Write([]byte("   *AFDSTAT *DISC    HELP     ILOG     *INFO    *LDB     LOG      LRF\r\n"))
			conn.Write([]byte("214 Direct comments to afd@example.org.\r\n"))
		case "":
			// The daemon ignores empty lines.
		default:
			conn.Write([]byte(UnknownReply + "\r\n"))
		}
	}
}
