package capture

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// UDPSource receives datagrams from a bound UDP socket. Receive blocks
// for at most the configured timeout so cancellation is observed within
// one interval; it never blocks indefinitely.
type UDPSource struct {
	conn    *net.UDPConn
	timeout time.Duration
	buf     []byte
}

// ListenUDP binds the socket. A bind or permission failure is fatal to
// startup and is returned wrapped with the address that failed.
func ListenUDP(host string, port int, timeout time.Duration, bufferSize int) (*UDPSource, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(host), Port: port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("capture: failed to bind %s:%d: %w", host, port, err)
	}
	if bufferSize <= 0 {
		bufferSize = 2048
	}
	return &UDPSource{
		conn:    conn,
		timeout: timeout,
		buf:     make([]byte, bufferSize),
	}, nil
}

// LocalAddr returns the bound address, useful when port 0 was requested.
func (s *UDPSource) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Receive reads one datagram. Deadline expiry maps to ErrTimeout and a
// closed socket maps to io.EOF; both are expected control flow.
func (s *UDPSource) Receive() (Datagram, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return Datagram{}, fmt.Errorf("capture: failed to set read deadline: %w", err)
	}

	n, _, err := s.conn.ReadFromUDP(s.buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return Datagram{}, ErrTimeout
		}
		if errors.Is(err, net.ErrClosed) {
			return Datagram{}, io.EOF
		}
		return Datagram{}, fmt.Errorf("capture: read failed: %w", err)
	}

	data := make([]byte, n)
	copy(data, s.buf[:n])
	return Datagram{Data: data, ReceivedAt: time.Now()}, nil
}

// Close closes the socket. A blocked Receive returns io.EOF afterwards.
func (s *UDPSource) Close() error {
	return s.conn.Close()
}
