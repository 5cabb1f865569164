// Package telemetry decodes the binary UDP packet formats broadcast by
// the racing simulation. Every datagram starts with a fixed 29-byte
// little-endian header followed by one type-tagged payload whose length
// is pinned per packet format.
package telemetry

// Packet ids carried in PacketHeader.PacketID.
const (
	PacketMotion              uint8 = 0
	PacketSession             uint8 = 1
	PacketLapData             uint8 = 2
	PacketEvent               uint8 = 3
	PacketParticipants        uint8 = 4
	PacketCarSetups           uint8 = 5
	PacketCarTelemetry        uint8 = 6
	PacketCarStatus           uint8 = 7
	PacketFinalClassification uint8 = 8
	PacketLobbyInfo           uint8 = 9
	PacketCarDamage           uint8 = 10
	PacketSessionHistory      uint8 = 11
	PacketTyreSets            uint8 = 12
	PacketMotionEx            uint8 = 13
)

// MaxCars is the number of car slots in every car-indexed packet.
const MaxCars = 22

// HeaderSize is the fixed header length in bytes.
const HeaderSize = 29

// PacketHeader is the fixed-layout header present in every datagram.
type PacketHeader struct {
	PacketFormat            uint16 // e.g. 2023
	GameYear                uint8  // last two digits, e.g. 23
	GameMajorVersion        uint8
	GameMinorVersion        uint8
	PacketVersion           uint8
	PacketID                uint8
	SessionUID              uint64
	SessionTime             float32 // seconds since session start
	FrameIdentifier         uint32
	OverallFrameIdentifier  uint32
	PlayerCarIndex          uint8
	SecondaryPlayerCarIndex uint8 // 255 when no second player
}

// Format pins the wire format the decoder accepts. Datagrams declaring a
// different format or year are rejected as malformed.
type Format struct {
	PacketFormat uint16
	GameYear     uint8
}

// payloadSizes2023 maps packet id to the expected payload length
// (total packet size minus header) for packet format 2023.
var payloadSizes2023 = map[uint8]int{
	PacketMotion:              1349 - HeaderSize,
	PacketSession:             644 - HeaderSize,
	PacketLapData:             1131 - HeaderSize,
	PacketEvent:               45 - HeaderSize,
	PacketParticipants:        1306 - HeaderSize,
	PacketCarSetups:           1107 - HeaderSize,
	PacketCarTelemetry:        1352 - HeaderSize,
	PacketCarStatus:           1239 - HeaderSize,
	PacketFinalClassification: 1020 - HeaderSize,
	PacketLobbyInfo:           1218 - HeaderSize,
	PacketCarDamage:           953 - HeaderSize,
	PacketSessionHistory:      1460 - HeaderSize,
	PacketTyreSets:            231 - HeaderSize,
	PacketMotionEx:            217 - HeaderSize,
}

var packetNames = map[uint8]string{
	PacketMotion:              "Motion",
	PacketSession:             "Session",
	PacketLapData:             "Lap Data",
	PacketEvent:               "Event",
	PacketParticipants:        "Participants",
	PacketCarSetups:           "Car Setups",
	PacketCarTelemetry:        "Car Telemetry",
	PacketCarStatus:           "Car Status",
	PacketFinalClassification: "Final Classification",
	PacketLobbyInfo:           "Lobby Info",
	PacketCarDamage:           "Car Damage",
	PacketSessionHistory:      "Session History",
	PacketTyreSets:            "Tyre Sets",
	PacketMotionEx:            "Motion Ex",
}

// PacketName returns the human-readable name for a packet id, or
// "Unknown" for ids outside the documented set.
func PacketName(id uint8) string {
	if name, ok := packetNames[id]; ok {
		return name
	}
	return "Unknown"
}

// Payload is the decoded body of one datagram. Each supported packet
// type has its own implementation.
type Payload interface {
	// PacketID returns the packet id this payload was decoded from.
	PacketID() uint8
}
