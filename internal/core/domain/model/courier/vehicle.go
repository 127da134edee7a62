package courier

import (
	"fulfillment/internal/pkg/errs"
)

// Vehicle is the courier's transport profile. It determines the average
// travel speed used for ETA estimates shown alongside dispatch offers.
type Vehicle int

const (
	// VehicleUnknown represents an invalid or unset vehicle.
	VehicleUnknown Vehicle = iota
	// VehicleBicycle is a pedal or electric bicycle.
	VehicleBicycle
	// VehicleMotorcycle is a motorcycle or scooter.
	VehicleMotorcycle
	// VehicleCar is a car.
	VehicleCar
)

func getVehicleStrings() map[Vehicle]string {
	return map[Vehicle]string{
		VehicleBicycle:    "BICYCLE",
		VehicleMotorcycle: "MOTORCYCLE",
		VehicleCar:        "CAR",
	}
}

// Average urban speeds in km/h, deliberately conservative so ETAs shown to
// customers err on the late side.
func getVehicleSpeeds() map[Vehicle]float64 {
	return map[Vehicle]float64{
		VehicleBicycle:    15,
		VehicleMotorcycle: 35,
		VehicleCar:        30,
	}
}

// VehicleFromString parses a vehicle from its string representation.
func VehicleFromString(s string) (Vehicle, error) {
	for vehicle, str := range getVehicleStrings() {
		if str == s {
			return vehicle, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidError("vehicle: " + s)
}

// Validate ensures the vehicle is one of the known profiles.
func (v Vehicle) Validate() error {
	if _, ok := getVehicleStrings()[v]; !ok {
		return errs.NewValueIsInvalidError("vehicle")
	}
	return nil
}

// String returns the vehicle's string representation.
func (v Vehicle) String() string {
	if s, ok := getVehicleStrings()[v]; ok {
		return s
	}
	return "UNKNOWN"
}

// AvgSpeedKmh returns the vehicle's average travel speed in km/h.
func (v Vehicle) AvgSpeedKmh() float64 {
	if speed, ok := getVehicleSpeeds()[v]; ok {
		return speed
	}
	return 0
}
