package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
	ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
		"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery retrieves every order still in flight, newest first.
// Backs the admin monitoring board.
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for the admin board.
func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetCustomerOrdersQuery retrieves one customer's order history, newest
// first.
type GetCustomerOrdersQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates a validated history query.
func NewGetCustomerOrdersQuery(customerID kernel.UUID) (GetCustomerOrdersQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerOrdersQuery{}, err
	}

	return GetCustomerOrdersQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

// CustomerID returns the customer whose history is requested.
func (q GetCustomerOrdersQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// OrderSummaryResponse is one row in a listing: enough for a board or
// history line without the full item detail.
type OrderSummaryResponse struct {
	ID          kernel.UUID
	Code        string
	CustomerID  kernel.UUID
	MerchantID  *kernel.UUID
	CourierID   *kernel.UUID
	Status      string
	IsPickup    bool
	Total       kernel.Money
	CreatedAt   time.Time
	DeliveredAt *time.Time
}
