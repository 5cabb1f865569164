package telemetry

// carTelemetrySize is the per-car entry size inside a car telemetry
// payload. The payload carries MaxCars entries followed by three
// packet-level trailer bytes (MFD panels, suggested gear).
const carTelemetrySize = 60

// CarTelemetry is one car's entry in a car telemetry packet.
// Throttle and Brake are 0.0–1.0 as sent on the wire; Steer is
// -1.0 (full left) to 1.0 (full right).
type CarTelemetry struct {
	Speed             uint16 // km/h
	Throttle          float32
	Steer             float32
	Brake             float32
	Clutch            uint8 // 0–100
	Gear              int8  // -1 reverse, 0 neutral, 1–8
	EngineRPM         uint16
	DRS               uint8 // 0 off, 1 on
	RevLightsPercent  uint8
	EngineTemperature uint16 // celsius
}

// CarTelemetryData is the decoded car telemetry packet.
type CarTelemetryData struct {
	Cars          [MaxCars]CarTelemetry
	SuggestedGear int8 // 0 = no suggestion
}

func (CarTelemetryData) PacketID() uint8 { return PacketCarTelemetry }

func decodeCarTelemetry(payload []byte, _ *PacketHeader) (Payload, error) {
	var t CarTelemetryData
	for i := 0; i < MaxCars; i++ {
		b := payload[i*carTelemetrySize : (i+1)*carTelemetrySize]
		t.Cars[i] = CarTelemetry{
			Speed:             u16(b, 0),
			Throttle:          f32(b, 2),
			Steer:             f32(b, 6),
			Brake:             f32(b, 10),
			Clutch:            b[14],
			Gear:              int8(b[15]),
			EngineRPM:         u16(b, 16),
			DRS:               b[18],
			RevLightsPercent:  b[19],
			EngineTemperature: u16(b, 38),
		}
	}
	t.SuggestedGear = int8(payload[MaxCars*carTelemetrySize+2])
	return t, nil
}
