package telemetry

// SessionData is the decoded leading portion of a session packet. The
// remainder of the payload (marshal zones, weather forecast samples,
// assist settings) is length-validated but not decoded.
type SessionData struct {
	Weather          uint8 // 0 clear .. 5 storm
	TrackTemperature int8  // celsius
	AirTemperature   int8  // celsius
	TotalLaps        uint8
	TrackLength      uint16 // metres
	SessionType      uint8  // 0 unknown, 1-4 practice, 5-9 quali, 15-17 race
	TrackID          int8   // -1 unknown
	Formula          uint8
	SessionTimeLeft  uint16 // seconds
	SessionDuration  uint16 // seconds
	PitSpeedLimit    uint8  // km/h
}

func (SessionData) PacketID() uint8 { return PacketSession }

func decodeSession(payload []byte, _ *PacketHeader) (Payload, error) {
	return SessionData{
		Weather:          payload[0],
		TrackTemperature: int8(payload[1]),
		AirTemperature:   int8(payload[2]),
		TotalLaps:        payload[3],
		TrackLength:      u16(payload, 4),
		SessionType:      payload[6],
		TrackID:          int8(payload[7]),
		Formula:          payload[8],
		SessionTimeLeft:  u16(payload, 9),
		SessionDuration:  u16(payload, 11),
		PitSpeedLimit:    payload[13],
	}, nil
}

// trackNames maps the session packet's track id to the circuit name.
var trackNames = map[int8]string{
	0:  "Melbourne",
	1:  "Paul Ricard",
	2:  "Shanghai",
	3:  "Sakhir",
	4:  "Catalunya",
	5:  "Monaco",
	6:  "Montreal",
	7:  "Silverstone",
	8:  "Hockenheim",
	9:  "Hungaroring",
	10: "Spa",
	11: "Monza",
	12: "Singapore",
	13: "Suzuka",
	14: "Abu Dhabi",
	15: "Texas",
	16: "Brazil",
	17: "Austria",
	18: "Sochi",
	19: "Mexico",
	20: "Baku",
	21: "Sakhir Short",
	22: "Silverstone Short",
	23: "Texas Short",
	24: "Suzuka Short",
	25: "Hanoi",
	26: "Zandvoort",
	27: "Imola",
	28: "Portimao",
	29: "Jeddah",
	30: "Miami",
	31: "Las Vegas",
	32: "Losail",
}

// TrackName returns the circuit name for a session packet's track id,
// or "" when the id is unknown.
func TrackName(id int8) string {
	return trackNames[id]
}
