package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	// earthRadiusKm is Earth's mean radius in kilometers, used by the
	// great-circle distance calculation.
	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic position as a validated latitude/longitude
// pair in decimal degrees. It is an immutable value object; the zero value is
// invalid and fails validation.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(-33.4489, -70.6693)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(p) // Output: GeoPoint(-33.448900,-70.669300)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from latitude and longitude in decimal degrees.
// Latitude must be within [-90, 90] and longitude within [-180, 180].
// Returns an error if either coordinate is out of bounds or not a finite number.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLat(lat), point.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks if the GeoPoint was properly constructed via NewGeoPoint.
// The zero value is invalid and will fail this validation.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in decimal degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String returns a human-readable representation, useful for logging.
// Implements the fmt.Stringer interface.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lng)
}

// IsEqual compares two points for coordinate equality.
// Both points must be properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// DistanceTo calculates the great-circle distance to another point in
// kilometers using the haversine formula. The result is symmetric:
// a.DistanceTo(b) == b.DistanceTo(a).
//
// Example:
//
//	store, _ := kernel.NewGeoPoint(-33.4489, -70.6693)
//	home, _ := kernel.NewGeoPoint(-33.4569, -70.6483)
//
//	km, err := store.DistanceTo(home)
//	// km ≈ 2.1, err = nil
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	const degToRad = math.Pi / 180
	dLat := (other.lat - p.lat) * degToRad
	dLng := (other.lng - p.lng) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(p.lat*degToRad)*math.Cos(other.lat*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// setLat sets the latitude with validation.
// Note: pointer receiver is used intentionally for self-encapsulated
// validation during construction, while read methods use value receivers.
func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

// setLng sets the longitude with validation.
// Note: pointer receiver is used intentionally for self-encapsulated
// validation during construction, while read methods use value receivers.
func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	p.lng = lng
	return nil
}
