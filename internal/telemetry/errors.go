package telemetry

import "errors"

// Recoverable decode failures. Callers skip the datagram, bump the
// matching counter, and keep the receive loop running.
var (
	// ErrMalformedHeader marks a buffer shorter than HeaderSize or a
	// format/year field that does not match the pinned expectation.
	ErrMalformedHeader = errors.New("telemetry: malformed header")

	// ErrUnsupportedPacket marks a packet id with no registered decoder.
	ErrUnsupportedPacket = errors.New("telemetry: unsupported packet type")

	// ErrLengthMismatch marks a payload whose length differs from the
	// pinned length for its packet type and format.
	ErrLengthMismatch = errors.New("telemetry: payload length mismatch")
)
