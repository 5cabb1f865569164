package record

import (
	"fmt"
	"math"
	"time"

	"gridlog/internal/log"
	"gridlog/internal/telemetry"
)

// Session holds the state that survives across datagrams within one run.
type Session struct {
	Track     string
	StartedAt time.Time

	uid     uint64
	haveUID bool
	// lapNumber is the last lap number reported for the player car.
	// Non-decreasing while the session UID is unchanged.
	lapNumber uint8

	// detectedTrack is the circuit name inferred from the first session
	// packet, logged once when it disagrees with the configured name.
	detectedTrack string
}

// NewSession creates the run's session state. startedAt should be the
// UTC time the output file was opened with.
func NewSession(track string, startedAt time.Time) *Session {
	return &Session{Track: track, StartedAt: startedAt}
}

// Assembler merges decoded payloads with header fields and session
// state into samples. It is owned by the single process stage; its
// counters are not safe for concurrent use.
type Assembler struct {
	session *Session
	logger  log.Logger

	// SessionChanges counts mid-run session UID changes.
	SessionChanges uint64
	// LapRegressions counts lap data entries that reported a lower lap
	// number than the cached one for the same session UID.
	LapRegressions uint64
}

// NewAssembler creates an assembler bound to session.
func NewAssembler(session *Session) *Assembler {
	return &Assembler{session: session, logger: log.GetLogger()}
}

// Assemble produces exactly one sample for a decoded datagram. Fields
// the packet type does not carry stay nil and render as blank columns.
//
// Returns an error when the header's player car index does not address a
// valid car slot of a car-indexed payload; the caller skips the datagram.
func (a *Assembler) Assemble(h *telemetry.PacketHeader, p telemetry.Payload, receivedAt time.Time) (*Sample, error) {
	a.observeUID(h.SessionUID)

	s := &Sample{
		Timestamp:   receivedAt,
		FrameID:     h.FrameIdentifier,
		PacketType:  h.PacketID,
		SessionTime: h.SessionTime,
	}

	idx := int(h.PlayerCarIndex)

	switch v := p.(type) {
	case telemetry.LapDataPacket:
		if idx >= telemetry.MaxCars {
			return nil, fmt.Errorf("record: player car index %d out of range", idx)
		}
		car := v.Cars[idx]
		a.updateLap(car.CurrentLapNum)
		s.Lap = &LapFields{
			LapDistance:      car.LapDistance,
			CurrentLapTimeMS: car.CurrentLapTimeMS,
		}

	case telemetry.CarTelemetryData:
		if idx >= telemetry.MaxCars {
			return nil, fmt.Errorf("record: player car index %d out of range", idx)
		}
		car := v.Cars[idx]
		s.Car = &CarFields{
			Throttle: scalePedal(car.Throttle),
			Brake:    scalePedal(car.Brake),
			Steering: car.Steer,
			Speed:    car.Speed,
			Gear:     car.Gear,
			RPM:      car.EngineRPM,
			DRS:      normalizeFlag(car.DRS),
		}

	case telemetry.MotionData:
		if idx >= telemetry.MaxCars {
			return nil, fmt.Errorf("record: player car index %d out of range", idx)
		}
		car := v.Cars[idx]
		s.Motion = &MotionFields{
			PositionX: car.WorldPositionX,
			PositionY: car.WorldPositionY,
			PositionZ: car.WorldPositionZ,
		}

	case telemetry.CarStatusData:
		if idx >= telemetry.MaxCars {
			return nil, fmt.Errorf("record: player car index %d out of range", idx)
		}
		car := v.Cars[idx]
		s.Status = &StatusFields{
			FuelInTank:   car.FuelInTank,
			TyreCompound: car.ActualTyreCompound,
		}

	case telemetry.SessionData:
		a.observeTrack(v.TrackID)

	case telemetry.EventData:
		s.Event = &EventFields{Code: v.Code}
	}

	s.LapNumber = a.session.lapNumber
	return s, nil
}

// observeUID flags a session UID change mid-run. The output file is not
// rotated; the lap cache is reset so the new session starts clean.
func (a *Assembler) observeUID(uid uint64) {
	if !a.session.haveUID {
		a.session.uid = uid
		a.session.haveUID = true
		return
	}
	if uid == a.session.uid {
		return
	}
	a.logger.WithFields(map[string]interface{}{
		"previous_uid": a.session.uid,
		"new_uid":      uid,
	}).Warn("session UID changed mid-run, resetting lap cache")
	a.session.uid = uid
	a.session.lapNumber = 0
	a.SessionChanges++
}

// updateLap advances the cached lap number. Emitted lap numbers are
// non-decreasing within one session UID, so a lower report is counted
// and ignored.
func (a *Assembler) updateLap(lap uint8) {
	if lap < a.session.lapNumber {
		a.LapRegressions++
		a.logger.Debugf("lap number regressed from %d to %d, keeping cached value",
			a.session.lapNumber, lap)
		return
	}
	a.session.lapNumber = lap
}

func (a *Assembler) observeTrack(trackID int8) {
	if a.session.detectedTrack != "" {
		return
	}
	name := telemetry.TrackName(trackID)
	if name == "" {
		return
	}
	a.session.detectedTrack = name
	if a.session.Track == "" || a.session.Track == "unknown" {
		a.logger.Infof("session packet identifies the circuit as %q", name)
	}
}

// scalePedal converts a wire pedal value (0.0–1.0) to the 0–100 column
// scale.
func scalePedal(v float32) int {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 100
	}
	return int(math.Round(float64(v) * 100))
}

func normalizeFlag(v uint8) uint8 {
	if v != 0 {
		return 1
	}
	return 0
}
