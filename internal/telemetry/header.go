package telemetry

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeHeader parses the fixed 29-byte header at the start of data and
// returns the header together with the remaining payload bytes. All
// multi-byte fields are little-endian at fixed offsets.
//
// Fails with ErrMalformedHeader when the buffer is shorter than
// HeaderSize or when the declared packet format / game year does not
// match want.
func DecodeHeader(data []byte, want Format) (PacketHeader, []byte, error) {
	if len(data) < HeaderSize {
		return PacketHeader{}, nil, fmt.Errorf("%w: %d bytes, need %d",
			ErrMalformedHeader, len(data), HeaderSize)
	}

	h := PacketHeader{
		PacketFormat:            binary.LittleEndian.Uint16(data[0:2]),
		GameYear:                data[2],
		GameMajorVersion:        data[3],
		GameMinorVersion:        data[4],
		PacketVersion:           data[5],
		PacketID:                data[6],
		SessionUID:              binary.LittleEndian.Uint64(data[7:15]),
		SessionTime:             math.Float32frombits(binary.LittleEndian.Uint32(data[15:19])),
		FrameIdentifier:         binary.LittleEndian.Uint32(data[19:23]),
		OverallFrameIdentifier:  binary.LittleEndian.Uint32(data[23:27]),
		PlayerCarIndex:          data[27],
		SecondaryPlayerCarIndex: data[28],
	}

	if h.PacketFormat != want.PacketFormat || h.GameYear != want.GameYear {
		return PacketHeader{}, nil, fmt.Errorf("%w: format %d year %d, expected %d/%d",
			ErrMalformedHeader, h.PacketFormat, h.GameYear, want.PacketFormat, want.GameYear)
	}

	return h, data[HeaderSize:], nil
}
