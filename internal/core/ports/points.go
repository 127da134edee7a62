package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// PointsClient talks to the external loyalty-points service.
//
// Both operations are best effort from the fulfillment engine's point of
// view: a failure is logged and never aborts the order flow. The points
// service reconciles on its side.
type PointsClient interface {
	// Award credits points for a delivered order.
	Award(ctx context.Context, customerID kernel.UUID, orderID kernel.UUID, amount kernel.Money) error

	// Redeem burns points used as a discount at checkout.
	Redeem(ctx context.Context, customerID kernel.UUID, orderID kernel.UUID, amount kernel.Money) error
}
