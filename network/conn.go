package network

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPort is the port every AFD daemon listens on.
const DefaultPort = 4444

// ErrAlreadySplit is returned when a connection is split a second time.
// Each half has exactly one consumer.
var ErrAlreadySplit = errors.New("connection already split")

// ConnectError reports a failure to reach the server at startup.
// Its message is the underlying dial error, unchanged, so it can be shown
// to the user verbatim.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return e.Err.Error()
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Connection owns a single TCP socket to an AFD daemon.
// It is created by Connect and handed out as one ReadHalf and one WriteHalf.
type Connection struct {
	conn    net.Conn
	address string

	split atomic.Bool
	wh    *WriteHalf

	// Half-close bookkeeping: the socket is released once both halves close.
	mu          sync.Mutex
	readClosed  bool
	writeClosed bool
	closeOnce   sync.Once
	closeErr    error

	// Set before the read half is shut down, so an EOF that follows is
	// known to be ours.
	localReadClose atomic.Bool

	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
	linesEmitted atomic.Uint64
	lastReadTime atomic.Int64 // Unix nano
}

// Connect resolves host and opens a stream socket to host:port.
// Failures are returned as *ConnectError.
func Connect(ctx context.Context, host string, port int) (*Connection, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	// Dial with context to respect app shutdown during connection attempts
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &ConnectError{Address: address, Err: err}
	}

	// Configure TCP KeepAlive (for detecting dropped connections)
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		tcpConn.SetKeepAlive(true)
		tcpConn.SetKeepAlivePeriod(30 * time.Second)
	}

	return NewConnection(conn), nil
}

// NewConnection wraps an already established stream.
func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		conn:    conn,
		address: conn.RemoteAddr().String(),
	}
}

// Address returns the remote address.
func (c *Connection) Address() string {
	return c.address
}

// Split hands out the read and write halves. It may be called once.
func (c *Connection) Split() (*ReadHalf, *WriteHalf, error) {
	if !c.split.CompareAndSwap(false, true) {
		return nil, nil, ErrAlreadySplit
	}
	r := &ReadHalf{c: c}
	w := &WriteHalf{c: c}
	w.bw = bufio.NewWriter(countingWriter{w})
	c.wh = w
	return r, w, nil
}

// Close tears down the whole socket. A Reader blocked on the read half
// returns promptly with net.ErrClosed.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

// Stats returns the traffic counters for this connection.
func (c *Connection) Stats() Stats {
	lastRead := time.Unix(0, c.lastReadTime.Load())
	if c.lastReadTime.Load() == 0 {
		lastRead = time.Time{}
	}
	return Stats{
		Address:      c.address,
		BytesRead:    c.bytesRead.Load(),
		BytesWritten: c.bytesWritten.Load(),
		LinesEmitted: c.linesEmitted.Load(),
		LastReadTime: lastRead,
	}
}

// closedLocally reports whether the read half was closed on this side.
func (c *Connection) closedLocally() bool {
	return c.localReadClose.Load()
}

// closeHalf records that one direction is finished. When the transport
// cannot half-close (net.Pipe, TLS), or both halves are done, the socket
// is closed.
func (c *Connection) closeHalf(read bool) error {
	c.mu.Lock()
	if read {
		c.readClosed = true
	} else {
		c.writeClosed = true
	}
	both := c.readClosed && c.writeClosed
	c.mu.Unlock()

	if both {
		return c.Close()
	}

	type halfCloser interface {
		CloseRead() error
		CloseWrite() error
	}
	hc, ok := c.conn.(halfCloser)
	if !ok {
		return c.Close()
	}
	if read {
		return hc.CloseRead()
	}
	return hc.CloseWrite()
}

// ReadHalf is the inbound direction of a Connection.
type ReadHalf struct {
	c *Connection
}

// Read reads raw bytes in transmission order.
func (r *ReadHalf) Read(p []byte) (int, error) {
	n, err := r.c.conn.Read(p)
	if n > 0 {
		r.c.bytesRead.Add(uint64(n))
		r.c.lastReadTime.Store(time.Now().UnixNano())
	}
	return n, err
}

// Close stops reading. A blocked Read returns. The peer only learns of
// the close through EOF, so the write half is flushed and closed as well
// and the socket is released.
func (r *ReadHalf) Close() error {
	r.c.localReadClose.Store(true)
	werr := r.c.wh.Close()
	rerr := r.c.closeHalf(true)
	if werr != nil {
		return werr
	}
	return rerr
}

// WriteHalf is the outbound direction of a Connection. Writes are buffered
// until Flush.
type WriteHalf struct {
	c *Connection

	mu     sync.Mutex
	bw     *bufio.Writer
	closed bool
}

// Write buffers p.
func (w *WriteHalf) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, net.ErrClosed
	}
	return w.bw.Write(p)
}

// Flush pushes buffered bytes to the socket.
func (w *WriteHalf) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return net.ErrClosed
	}
	return w.bw.Flush()
}

// Close flushes and half-closes the write direction; the peer reads EOF.
// Closing twice is a no-op.
func (w *WriteHalf) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	ferr := w.bw.Flush()
	cerr := w.c.closeHalf(false)
	if ferr != nil {
		return ferr
	}
	return cerr
}

type countingWriter struct {
	w *WriteHalf
}

func (cw countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.c.conn.Write(p)
	cw.w.c.bytesWritten.Add(uint64(n))
	return n, err
}
