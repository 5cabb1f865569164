package telemetry

import (
	"encoding/binary"
	"math"
)

// Fixed-offset little-endian readers. Bounds are guaranteed by the
// registry's length validation before any decoder runs.

func u16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

func u32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func f32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
}
