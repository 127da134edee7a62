package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetCourierDashboardQueryIsNotConstructed = errors.New(
	"GetCourierDashboardQuery must be created via NewGetCourierDashboardQuery constructor",
)

// GetCourierDashboardQuery retrieves everything a courier's app shows at
// once: the live offer addressed to them, the open pool they may volunteer
// for, and their in-flight assignments.
type GetCourierDashboardQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierDashboardQuery creates a validated dashboard query.
func NewGetCourierDashboardQuery(courierID kernel.UUID) (GetCourierDashboardQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierDashboardQuery{}, err
	}

	return GetCourierDashboardQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierDashboardQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierDashboardQueryIsNotConstructed)
}

// CourierID returns the courier whose dashboard is requested.
func (q GetCourierDashboardQuery) CourierID() kernel.UUID {
	return q.courierID
}

// DeliveryJobResponse is one order a courier could carry: an offer, an open
// pool entry, or an assignment. Earnings is the order's delivery fee.
type DeliveryJobResponse struct {
	OrderID        kernel.UUID
	Code           string
	Status         string
	Earnings       kernel.Money
	DistanceKm     *float64
	EtaMinutes     *int
	OfferExpiresAt *time.Time
	CreatedAt      time.Time
}

// GetCourierDashboardQueryResponse is the full dashboard payload.
// Offer is nil when no live offer is addressed to the courier.
type GetCourierDashboardQueryResponse struct {
	Offer       *DeliveryJobResponse
	OpenPool    []DeliveryJobResponse
	Assignments []DeliveryJobResponse
}
