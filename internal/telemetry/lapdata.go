package telemetry

// carLapSize is the per-car entry size inside a lap data payload. The
// payload carries MaxCars entries followed by the two time-trial car
// index trailer bytes.
const carLapSize = 50

// CarLap is one car's entry in a lap data packet.
type CarLap struct {
	LastLapTimeMS     uint32
	CurrentLapTimeMS  uint32
	LapDistance       float32 // metres around current lap, negative before the line
	TotalDistance     float32 // metres over the whole session
	CarPosition       uint8
	CurrentLapNum     uint8
	PitStatus         uint8 // 0 none, 1 pitting, 2 in pit area
	Sector            uint8 // 0-based
	CurrentLapInvalid uint8
	DriverStatus      uint8 // 0 garage, 1 flying lap, 2 in lap, 3 out lap, 4 on track
}

// LapDataPacket is the decoded lap data packet.
type LapDataPacket struct {
	Cars [MaxCars]CarLap
}

func (LapDataPacket) PacketID() uint8 { return PacketLapData }

func decodeLapData(payload []byte, _ *PacketHeader) (Payload, error) {
	var p LapDataPacket
	for i := 0; i < MaxCars; i++ {
		b := payload[i*carLapSize : (i+1)*carLapSize]
		p.Cars[i] = CarLap{
			LastLapTimeMS:     u32(b, 0),
			CurrentLapTimeMS:  u32(b, 4),
			LapDistance:       f32(b, 18),
			TotalDistance:     f32(b, 22),
			CarPosition:       b[30],
			CurrentLapNum:     b[31],
			PitStatus:         b[32],
			Sector:            b[34],
			CurrentLapInvalid: b[35],
			DriverStatus:      b[43],
		}
	}
	return p, nil
}
