package telemetry

// Event string codes that identify the event carried by an event packet.
const (
	EventSessionStarted  = "SSTA"
	EventSessionEnded    = "SEND"
	EventFastestLap      = "FTLP"
	EventRetirement      = "RTMT"
	EventDRSEnabled      = "DRSE"
	EventDRSDisabled     = "DRSD"
	EventChequeredFlag   = "CHQF"
	EventRaceWinner      = "RCWN"
	EventPenaltyIssued   = "PENA"
	EventSpeedTrap       = "SPTP"
	EventLightsOut       = "LGOT"
)

// EventData is the decoded event packet: a 4-character code followed by
// a 12-byte detail union that is kept raw.
type EventData struct {
	Code    string
	Details [12]byte
}

func (EventData) PacketID() uint8 { return PacketEvent }

func decodeEvent(payload []byte, _ *PacketHeader) (Payload, error) {
	var e EventData
	e.Code = string(payload[0:4])
	copy(e.Details[:], payload[4:16])
	return e, nil
}
