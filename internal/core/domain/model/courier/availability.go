package courier

import (
	"fulfillment/internal/pkg/errs"
)

// Availability captures whether an online courier can receive dispatch
// offers. Busy couriers have an order in flight and are skipped by ranking.
type Availability int

const (
	// AvailabilityUnknown represents an invalid or unset availability.
	AvailabilityUnknown Availability = iota
	// Available means the courier may receive dispatch offers.
	Available
	// Busy means the courier has an assigned order in flight.
	Busy
)

func getAvailabilityStrings() map[Availability]string {
	return map[Availability]string{
		Available: "AVAILABLE",
		Busy:      "BUSY",
	}
}

// AvailabilityFromString parses an availability from its string representation.
func AvailabilityFromString(s string) (Availability, error) {
	for availability, str := range getAvailabilityStrings() {
		if str == s {
			return availability, nil
		}
	}
	return AvailabilityUnknown, errs.NewValueIsInvalidError("availability: " + s)
}

// Validate ensures the availability is one of the known values.
func (a Availability) Validate() error {
	if _, ok := getAvailabilityStrings()[a]; !ok {
		return errs.NewValueIsInvalidError("availability")
	}
	return nil
}

// String returns the availability's string representation.
func (a Availability) String() string {
	if s, ok := getAvailabilityStrings()[a]; ok {
		return s
	}
	return "UNKNOWN"
}
