package telemetry

// carStatusSize is the per-car entry size inside a car status payload.
const carStatusSize = 55

// CarStatus is one car's entry in a car status packet.
type CarStatus struct {
	FuelInTank         float32
	FuelCapacity       float32
	FuelRemainingLaps  float32
	MaxRPM             uint16
	DRSAllowed         uint8
	ActualTyreCompound uint8
	VisualTyreCompound uint8
	TyresAgeLaps       uint8
	VehicleFIAFlags    int8    // -1 invalid, 0 none, 1 green, 2 blue, 3 yellow
	ERSStoreEnergy     float32 // joules
}

// CarStatusData is the decoded car status packet.
type CarStatusData struct {
	Cars [MaxCars]CarStatus
}

func (CarStatusData) PacketID() uint8 { return PacketCarStatus }

func decodeCarStatus(payload []byte, _ *PacketHeader) (Payload, error) {
	var s CarStatusData
	for i := 0; i < MaxCars; i++ {
		b := payload[i*carStatusSize : (i+1)*carStatusSize]
		s.Cars[i] = CarStatus{
			FuelInTank:         f32(b, 5),
			FuelCapacity:       f32(b, 9),
			FuelRemainingLaps:  f32(b, 13),
			MaxRPM:             u16(b, 17),
			DRSAllowed:         b[22],
			ActualTyreCompound: b[25],
			VisualTyreCompound: b[26],
			TyresAgeLaps:       b[27],
			VehicleFIAFlags:    int8(b[28]),
			ERSStoreEnergy:     f32(b, 37),
		}
	}
	return s, nil
}
