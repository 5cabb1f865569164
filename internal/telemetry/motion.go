package telemetry

// carMotionSize is the per-car entry size inside a motion payload.
const carMotionSize = 60

// CarMotion is one car's entry in a motion packet. Positions are metres
// in world space, g-forces in multiples of g, angles in radians.
type CarMotion struct {
	WorldPositionX     float32
	WorldPositionY     float32
	WorldPositionZ     float32
	WorldVelocityX     float32
	WorldVelocityY     float32
	WorldVelocityZ     float32
	GForceLateral      float32
	GForceLongitudinal float32
	GForceVertical     float32
	Yaw                float32
	Pitch              float32
	Roll               float32
}

// MotionData is the decoded motion packet: one entry per car slot.
type MotionData struct {
	Cars [MaxCars]CarMotion
}

func (MotionData) PacketID() uint8 { return PacketMotion }

func decodeMotion(payload []byte, _ *PacketHeader) (Payload, error) {
	var m MotionData
	for i := 0; i < MaxCars; i++ {
		b := payload[i*carMotionSize : (i+1)*carMotionSize]
		m.Cars[i] = CarMotion{
			WorldPositionX:     f32(b, 0),
			WorldPositionY:     f32(b, 4),
			WorldPositionZ:     f32(b, 8),
			WorldVelocityX:     f32(b, 12),
			WorldVelocityY:     f32(b, 16),
			WorldVelocityZ:     f32(b, 20),
			GForceLateral:      f32(b, 36),
			GForceLongitudinal: f32(b, 40),
			GForceVertical:     f32(b, 44),
			Yaw:                f32(b, 48),
			Pitch:              f32(b, 52),
			Roll:               f32(b, 56),
		}
	}
	return m, nil
}
