package telemetry

import "testing"

func TestDecodeLapData(t *testing.T) {
	payload := makeLapDataPayload()

	want := CarLap{
		LastLapTimeMS:     92517,
		CurrentLapTimeMS:  31205,
		LapDistance:       2144.5,
		TotalDistance:     12890.25,
		CarPosition:       4,
		CurrentLapNum:     3,
		PitStatus:         0,
		Sector:            1,
		CurrentLapInvalid: 0,
		DriverStatus:      4,
	}
	fillCarLap(payload, 0, want)
	fillCarLap(payload, 21, CarLap{CurrentLapNum: 9, PitStatus: 2})

	p, err := decodeLapData(payload, &PacketHeader{})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	data := p.(LapDataPacket)

	if data.Cars[0] != want {
		t.Errorf("car 0 = %+v, want %+v", data.Cars[0], want)
	}
	if data.Cars[21].CurrentLapNum != 9 || data.Cars[21].PitStatus != 2 {
		t.Errorf("car 21 = %+v, want lap 9 in pit", data.Cars[21])
	}
	if data.Cars[10] != (CarLap{}) {
		t.Errorf("car 10 = %+v, want zero value", data.Cars[10])
	}
}
