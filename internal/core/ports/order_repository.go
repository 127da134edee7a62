package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// The offer methods are conditional writes: they succeed only when the
// stored row still satisfies the aggregate's preconditions, and return
// errs.ErrConflict when a concurrent writer got there first. The database
// is the arbiter of dispatch races.
type OrderRepository interface {
	// Add persists a new order aggregate with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus moves the order's status only if the stored status still
	// equals expected. Returns errs.ErrConflict when the row moved on.
	UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllForCourier retrieves the orders assigned to a courier in the
	// active delivery band.
	GetAllForCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)

	// OfferTo places a dispatch offer conditionally: only when the row has
	// no courier and no live pending offer. Zero rows means errs.ErrConflict.
	OfferTo(ctx context.Context, aggregate *order.Order) error

	// AcceptOffer assigns the courier conditionally, mirroring
	// order.AcceptOffer: the courier must hold the live offer or the order
	// must sit in the open pool. Zero rows means errs.ErrConflict ("too late").
	AcceptOffer(ctx context.Context, aggregate *order.Order) error

	// GetExpiredOffers retrieves orders whose pending offer deadline passed
	// without acceptance. Used by the expiry sweep.
	GetExpiredOffers(ctx context.Context, now time.Time) ([]*order.Order, error)
}
