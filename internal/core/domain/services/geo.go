package services

import (
	"errors"
	"math"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrDeliveryOutOfRange is returned when the drop-off sits beyond the maximum
// delivery radius. Such orders can only be placed as pickup.
var ErrDeliveryOutOfRange = errors.New("delivery address is out of range")

// Tariff holds the delivery pricing tunables. All values come from
// configuration; zero-value tariffs are rejected at construction.
type Tariff struct {
	// FuelPricePerLiter is the current fuel price in money units per liter.
	FuelPricePerLiter float64
	// FuelConsumptionPerKm is liters burned per kilometer.
	FuelConsumptionPerKm float64
	// BaseFee is the flat component added to every delivery.
	BaseFee float64
	// MaintenanceFactor scales the whole fee to cover vehicle wear (>= 1).
	MaintenanceFactor float64
	// MaxDistanceKm is the delivery radius. Beyond it only pickup is offered.
	MaxDistanceKm float64
	// FreeDeliveryMinSubtotal waives the fee for carts at or above this
	// subtotal. Zero disables free delivery.
	FreeDeliveryMinSubtotal kernel.Money
}

// NewTariff validates the tunables and returns a ready tariff.
func NewTariff(
	fuelPricePerLiter, fuelConsumptionPerKm, baseFee, maintenanceFactor, maxDistanceKm float64,
	freeDeliveryMinSubtotal kernel.Money,
) (Tariff, error) {
	if fuelPricePerLiter <= 0 {
		return Tariff{}, errs.NewValueIsInvalidError("fuel price")
	}
	if fuelConsumptionPerKm <= 0 {
		return Tariff{}, errs.NewValueIsInvalidError("fuel consumption")
	}
	if baseFee < 0 {
		return Tariff{}, errs.NewValueIsInvalidError("base fee")
	}
	if maintenanceFactor < 1 {
		return Tariff{}, errs.NewValueIsInvalidError("maintenance factor")
	}
	if maxDistanceKm <= 0 {
		return Tariff{}, errs.NewValueIsInvalidError("max distance")
	}
	if freeDeliveryMinSubtotal.IsNegative() {
		return Tariff{}, errs.NewValueIsInvalidError("free delivery threshold")
	}

	return Tariff{
		FuelPricePerLiter:       fuelPricePerLiter,
		FuelConsumptionPerKm:    fuelConsumptionPerKm,
		BaseFee:                 baseFee,
		MaintenanceFactor:       maintenanceFactor,
		MaxDistanceKm:           maxDistanceKm,
		FreeDeliveryMinSubtotal: freeDeliveryMinSubtotal,
	}, nil
}

// DeliveryFee prices a delivery over the given one-way distance.
//
// The courier rides to the store and then to the customer, so fuel is charged
// on the round trip. The fee is rounded up to a whole money unit:
//
//	ceil((2*distance * consumption * fuelPrice + base) * maintenance)
//
// Carts at or above the free-delivery threshold pay nothing. A distance
// beyond the tariff's radius returns ErrDeliveryOutOfRange.
func DeliveryFee(distanceKm float64, subtotal kernel.Money, tariff Tariff) (kernel.Money, error) {
	if distanceKm < 0 {
		return 0, errs.NewValueIsInvalidError("distance")
	}
	if distanceKm > tariff.MaxDistanceKm {
		return 0, ErrDeliveryOutOfRange
	}

	if tariff.FreeDeliveryMinSubtotal > 0 && subtotal >= tariff.FreeDeliveryMinSubtotal {
		return 0, nil
	}

	roundTrip := 2 * distanceKm
	fuel := roundTrip * tariff.FuelConsumptionPerKm * tariff.FuelPricePerLiter
	fee := (fuel + tariff.BaseFee) * tariff.MaintenanceFactor

	return kernel.Money(math.Ceil(fee)), nil
}

// TravelTime estimates the minutes needed to cover the distance with the
// given vehicle, rounded up to a whole minute with a one minute floor.
func TravelTime(distanceKm float64, vehicle courier.Vehicle) (int, error) {
	if distanceKm < 0 {
		return 0, errs.NewValueIsInvalidError("distance")
	}
	if err := vehicle.Validate(); err != nil {
		return 0, err
	}

	minutes := int(math.Ceil(distanceKm / vehicle.AvgSpeedKmh() * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes, nil
}
