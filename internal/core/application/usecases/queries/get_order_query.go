// Package queries contains read-only operations for the query side of the
// CQRS split. Query handlers read the database directly with raw SQL and
// return flat response structs; they never load aggregates and never write.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its line items for tracking views.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a validated order lookup.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order to look up.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is one priced cart line in an order response.
type OrderItemResponse struct {
	ProductID kernel.UUID
	Name      string
	UnitPrice kernel.Money
	Quantity  int
}

// GetOrderQueryResponse is the full order snapshot for tracking views.
type GetOrderQueryResponse struct {
	ID               kernel.UUID
	Code             string
	CustomerID       kernel.UUID
	MerchantID       *kernel.UUID
	Status           string
	PaymentStatus    string
	IsPickup         bool
	CourierID        *kernel.UUID
	PendingCourierID *kernel.UUID
	OfferExpiresAt   *time.Time
	Subtotal         kernel.Money
	DeliveryFee      kernel.Money
	Discount         kernel.Money
	Total            kernel.Money
	DistanceKm       *float64
	Items            []OrderItemResponse
	CreatedAt        time.Time
	DeliveredAt      *time.Time
}
