package telemetry

import "fmt"

// DecodeFunc decodes one payload. The payload slice has already been
// validated against the entry's expected length.
type DecodeFunc func(payload []byte, h *PacketHeader) (Payload, error)

type entry struct {
	length int
	decode DecodeFunc
}

// Registry dispatches payload decoding by packet id. New packet types
// are supported by registering another entry; the dispatch mechanism
// itself never changes.
type Registry struct {
	entries map[uint8]entry
}

// NewRegistry returns a registry with the format-2023 decoders
// registered: motion, session, lap data, event, car telemetry and car
// status.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[uint8]entry)}
	r.Register(PacketMotion, payloadSizes2023[PacketMotion], decodeMotion)
	r.Register(PacketSession, payloadSizes2023[PacketSession], decodeSession)
	r.Register(PacketLapData, payloadSizes2023[PacketLapData], decodeLapData)
	r.Register(PacketEvent, payloadSizes2023[PacketEvent], decodeEvent)
	r.Register(PacketCarTelemetry, payloadSizes2023[PacketCarTelemetry], decodeCarTelemetry)
	r.Register(PacketCarStatus, payloadSizes2023[PacketCarStatus], decodeCarStatus)
	return r
}

// Register adds a decoder for packet id with its expected payload length.
func (r *Registry) Register(id uint8, length int, fn DecodeFunc) {
	r.entries[id] = entry{length: length, decode: fn}
}

// Supported reports whether a decoder is registered for id.
func (r *Registry) Supported(id uint8) bool {
	_, ok := r.entries[id]
	return ok
}

// Decode looks up the decoder for h.PacketID and decodes payload.
//
// Returns ErrUnsupportedPacket when no decoder is registered for the id
// and ErrLengthMismatch when the payload length differs from the pinned
// length. Both are recoverable: the caller skips the datagram.
func (r *Registry) Decode(payload []byte, h *PacketHeader) (Payload, error) {
	e, ok := r.entries[h.PacketID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnsupportedPacket, h.PacketID)
	}
	if len(payload) != e.length {
		return nil, fmt.Errorf("%w: %s payload is %d bytes, expected %d",
			ErrLengthMismatch, PacketName(h.PacketID), len(payload), e.length)
	}
	return e.decode(payload, h)
}
