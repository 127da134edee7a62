// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the realtime notifier, and
// the loyalty-points client. These interfaces enable dependency inversion
// and testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllDispatchable retrieves couriers eligible for a dispatch offer:
	// online, Available, and not holding a live pending offer on any order
	// at the given instant.
	GetAllDispatchable(ctx context.Context, now time.Time) ([]*courier.Courier, error)
}
