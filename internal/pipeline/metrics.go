package pipeline

import "sync/atomic"

// Metrics holds the run's counters. Received and Dropped are written by
// the capture goroutine, everything else by the process goroutine, so
// all counters are atomic.
type Metrics struct {
	Received       atomic.Uint64
	Decoded        atomic.Uint64
	Malformed      atomic.Uint64
	Unsupported    atomic.Uint64
	LengthMismatch atomic.Uint64
	Dropped        atomic.Uint64

	// byType counts received packets per packet id, keyed by the raw
	// id byte so unknown ids are counted too.
	byType [256]atomic.Uint64
}

// Skipped returns the total number of datagrams skipped for any
// recoverable reason.
func (m *Metrics) Skipped() uint64 {
	return m.Malformed.Load() + m.Unsupported.Load() + m.LengthMismatch.Load()
}
