package ftpstream

import (
	"net"
	"syscall"
	"time"
)

// dataConn is the transfer side of a session: the transient socket a
// RETR or STOR moves payload bytes over. Every read and write is bounded
// by the session's configured timeout, and the raw connection stays
// reachable for the descriptor and half-close passthroughs the facade
// offers to multiplexing callers.
type dataConn struct {
	net.Conn
	timeout time.Duration
}

func newDataConn(conn net.Conn, timeout time.Duration) *dataConn {
	return &dataConn{Conn: conn, timeout: timeout}
}

// deadline returns the cutoff for the next transfer operation; the zero
// time leaves the transport default in place.
func (c *dataConn) deadline() time.Time {
	if c.timeout > 0 {
		return time.Now().Add(c.timeout)
	}
	return time.Time{}
}

func (c *dataConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(c.deadline()); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *dataConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(c.deadline()); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// fd exposes the OS descriptor of the transfer socket.
func (c *dataConn) fd() (uintptr, error) {
	sc, ok := c.Conn.(syscall.Conn)
	if !ok {
		return 0, ErrNoDataConnection
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd uintptr
	if err := raw.Control(func(h uintptr) { fd = h }); err != nil {
		return 0, err
	}
	return fd, nil
}

// halfClose shuts down the given directions of the transfer socket,
// leaving the other side open.
func (c *dataConn) halfClose(how ShutdownHow) error {
	hc, ok := c.Conn.(interface {
		CloseRead() error
		CloseWrite() error
	})
	if !ok {
		return ErrNoDataConnection
	}
	if how&ShutdownRead != 0 {
		if err := hc.CloseRead(); err != nil {
			return err
		}
	}
	if how&ShutdownWrite != 0 {
		if err := hc.CloseWrite(); err != nil {
			return err
		}
	}
	return nil
}
