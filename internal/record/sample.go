// Package record turns decoded packets into flat output rows. It owns
// the per-session mutable state (cached lap number, session UID).
package record

import "time"

// Sample is one flattened output row. Header-derived fields are always
// set; the optional groups are populated only when the source packet
// type actually carried them. Rows never borrow values from earlier
// packets; the lap number, fed from the session cache, is the single
// exception.
type Sample struct {
	Timestamp   time.Time
	FrameID     uint32
	LapNumber   uint8
	PacketType  uint8
	SessionTime float32

	Car    *CarFields
	Motion *MotionFields
	Lap    *LapFields
	Status *StatusFields
	Event  *EventFields
}

// CarFields holds the car telemetry columns for the player car.
type CarFields struct {
	Throttle int     // 0–100
	Brake    int     // 0–100
	Steering float32 // -1.0..1.0
	Speed    uint16  // km/h
	Gear     int8    // -1 reverse, 0 neutral
	RPM      uint16
	DRS      uint8 // 0/1
}

// MotionFields holds the player car's world position in metres.
type MotionFields struct {
	PositionX float32
	PositionY float32
	PositionZ float32
}

// LapFields holds the lap data columns for the player car.
type LapFields struct {
	LapDistance      float32
	CurrentLapTimeMS uint32
}

// StatusFields holds the car status columns for the player car.
type StatusFields struct {
	FuelInTank   float32
	TyreCompound uint8
}

// EventFields holds the event packet's string code.
type EventFields struct {
	Code string
}
