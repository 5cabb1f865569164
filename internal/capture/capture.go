// Package capture produces raw datagrams for the decode pipeline, either
// live from a UDP socket or offline from a pcap file.
package capture

import (
	"errors"
	"time"
)

// Datagram is one received UDP payload plus its host-clock arrival time.
// The buffer is owned by the receiver after Receive returns; sources
// never reuse it.
type Datagram struct {
	Data       []byte
	ReceivedAt time.Time
}

// ErrTimeout signals that no datagram arrived within the poll interval.
// Recoverable: the caller re-checks cancellation and polls again.
var ErrTimeout = errors.New("capture: receive timed out")

// Source is a sequence of datagrams. Receive returns ErrTimeout when the
// poll interval elapses and io.EOF when the source is exhausted or
// closed; any other error is a read failure.
type Source interface {
	Receive() (Datagram, error)
	Close() error
}
