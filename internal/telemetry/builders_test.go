package telemetry

import (
	"encoding/binary"
	"math"
)

// Little-endian write helpers for building synthetic payloads.

func putU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:off+4], math.Float32bits(v))
}

// makeCarTelemetryPayload builds an empty car telemetry payload of the
// pinned length; tests fill individual car entries afterwards.
func makeCarTelemetryPayload() []byte {
	return make([]byte, payloadSizes2023[PacketCarTelemetry])
}

// fillCarTelemetry writes one car entry into a telemetry payload.
func fillCarTelemetry(payload []byte, car int, ct CarTelemetry) {
	b := payload[car*carTelemetrySize:]
	putU16(b, 0, ct.Speed)
	putF32(b, 2, ct.Throttle)
	putF32(b, 6, ct.Steer)
	putF32(b, 10, ct.Brake)
	b[14] = ct.Clutch
	b[15] = byte(ct.Gear)
	putU16(b, 16, ct.EngineRPM)
	b[18] = ct.DRS
	b[19] = ct.RevLightsPercent
	putU16(b, 38, ct.EngineTemperature)
}

func makeMotionPayload() []byte {
	return make([]byte, payloadSizes2023[PacketMotion])
}

func fillCarMotion(payload []byte, car int, m CarMotion) {
	b := payload[car*carMotionSize:]
	putF32(b, 0, m.WorldPositionX)
	putF32(b, 4, m.WorldPositionY)
	putF32(b, 8, m.WorldPositionZ)
	putF32(b, 12, m.WorldVelocityX)
	putF32(b, 16, m.WorldVelocityY)
	putF32(b, 20, m.WorldVelocityZ)
	putF32(b, 36, m.GForceLateral)
	putF32(b, 40, m.GForceLongitudinal)
	putF32(b, 44, m.GForceVertical)
	putF32(b, 48, m.Yaw)
	putF32(b, 52, m.Pitch)
	putF32(b, 56, m.Roll)
}

func makeLapDataPayload() []byte {
	return make([]byte, payloadSizes2023[PacketLapData])
}

func fillCarLap(payload []byte, car int, l CarLap) {
	b := payload[car*carLapSize:]
	putU32(b, 0, l.LastLapTimeMS)
	putU32(b, 4, l.CurrentLapTimeMS)
	putF32(b, 18, l.LapDistance)
	putF32(b, 22, l.TotalDistance)
	b[30] = l.CarPosition
	b[31] = l.CurrentLapNum
	b[32] = l.PitStatus
	b[34] = l.Sector
	b[35] = l.CurrentLapInvalid
	b[43] = l.DriverStatus
}

func makeCarStatusPayload() []byte {
	return make([]byte, payloadSizes2023[PacketCarStatus])
}

func fillCarStatus(payload []byte, car int, s CarStatus) {
	b := payload[car*carStatusSize:]
	putF32(b, 5, s.FuelInTank)
	putF32(b, 9, s.FuelCapacity)
	putF32(b, 13, s.FuelRemainingLaps)
	putU16(b, 17, s.MaxRPM)
	b[22] = s.DRSAllowed
	b[25] = s.ActualTyreCompound
	b[26] = s.VisualTyreCompound
	b[27] = s.TyresAgeLaps
	b[28] = byte(s.VehicleFIAFlags)
	putF32(b, 37, s.ERSStoreEnergy)
}
