// Package transport adapts a net.Conn to the readiness-driven meca.Source
// used by the control and feedback connections.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/arloliu/go-meca/meca"
)

// pollWindow is the deadline used for a non-blocking readiness check.
//
// A read deadline that has already passed fails before the socket is
// inspected, so a poll waits for this short window instead.
const pollWindow = 500 * time.Microsecond

// Conn is a TCP connection with an explicit readiness check.
//
// Conn is not goroutine-safe for reading; writes may come from the same owner only.
type Conn struct {
	conn         net.Conn
	reader       *bufio.Reader
	writeTimeout time.Duration
}

var _ meca.Source = (*Conn)(nil)

// New wraps conn. A positive writeTimeout bounds every Write.
func New(conn net.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{
		conn:         conn,
		reader:       bufio.NewReaderSize(conn, 4096),
		writeTimeout: writeTimeout,
	}
}

// Dial connects to addr within timeout and wraps the connection. The same
// timeout bounds later writes.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Conn, error) {
	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}

	return New(conn, timeout), nil
}

// WaitReadable blocks according to t until bytes can be read.
//
// It returns true when data is buffered or arrived, and also when the peer
// closed the connection, so that the following Read reports the shutdown.
func (c *Conn) WaitReadable(t meca.Timeout) (bool, error) {
	if c.reader.Buffered() > 0 {
		return true, nil
	}

	now := time.Now()
	deadline := t.Deadline(now)
	if t.IsPoll() {
		deadline = now.Add(pollWindow)
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return false, fmt.Errorf("transport: set read deadline: %w", err)
	}

	_, err := c.reader.Peek(1)
	switch {
	case err == nil:
		return true, nil
	case isTimeout(err):
		return false, nil
	case errors.Is(err, io.EOF):
		return true, nil
	default:
		return false, err
	}
}

// Read reads buffered bytes. Call it after WaitReadable reported true so it
// does not block.
func (c *Conn) Read(p []byte) (int, error) {
	return c.reader.Read(p)
}

// Write writes p within the configured write timeout.
func (c *Conn) Write(p []byte) (int, error) {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return 0, fmt.Errorf("transport: set write deadline: %w", err)
		}
	}

	return c.conn.Write(p)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the address of the robot.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}
