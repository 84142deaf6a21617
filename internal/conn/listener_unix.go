//go:build linux || darwin

package conn

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Listen opens a dual-stack TCP listener with SO_REUSEADDR set and
// TCP_NODELAY on every accepted socket, using golang.org/x/sys/unix for the
// raw setsockopt calls the standard library doesn't expose.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &nodelayListener{ln}, nil
}

// nodelayListener sets TCP_NODELAY on every accepted connection so a turn
// broadcast is not held behind Nagle's algorithm.
type nodelayListener struct {
	net.Listener
}

func (l *nodelayListener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tc, ok := c.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return c, nil
}
