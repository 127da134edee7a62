package courier

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
)

// Courier represents a delivery courier in the fleet.
// It is an aggregate root that manages courier identity, shift state,
// last-known position, and delivery accounting.
//
// Key responsibilities:
//   - Managing courier identity (ID, name, vehicle)
//   - Tracking the online/offline shift flag and dispatch availability
//   - Holding the last reported position with its timestamp (last write wins)
//   - Counting completed deliveries and the idle-since moment used as a
//     ranking tiebreak
//
// Business rules:
//   - Only online and Available couriers are eligible for dispatch offers
//   - Going offline while Busy is allowed; the in-flight order keeps its
//     assignment and the courier is expected to finish it
//   - Completing a delivery returns the courier to Available and stamps
//     lastDeliveredAt
type Courier struct {
	id      kernel.UUID
	name    string
	vehicle Vehicle

	online       bool
	availability Availability

	position       *kernel.GeoPoint
	lastPositionAt *time.Time

	deliveries      int
	lastDeliveredAt *time.Time

	guard guard.ConstructorGuard
}

// NewCourier creates a new offline, Available courier with no reported
// position and zero completed deliveries.
func NewCourier(id kernel.UUID, name string, vehicle Vehicle) (*Courier, error) {
	c := &Courier{
		availability: Available,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
func RestoreCourier(
	id kernel.UUID,
	name string,
	vehicle Vehicle,
	online bool,
	availability Availability,
	position *kernel.GeoPoint,
	lastPositionAt *time.Time,
	deliveries int,
	lastDeliveredAt *time.Time,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setVehicle(vehicle),
		availability.Validate(),
	); err != nil {
		return nil, err
	}

	if position != nil {
		if err := position.Validate(); err != nil {
			return nil, err
		}
	}
	if deliveries < 0 {
		return nil, errs.NewValueIsInvalidError("deliveries")
	}

	c.online = online
	c.availability = availability
	c.position = position
	c.lastPositionAt = lastPositionAt
	c.deliveries = deliveries
	c.lastDeliveredAt = lastDeliveredAt

	return c, nil
}

// Validate ensures the Courier instance was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's name.
func (c *Courier) Name() string {
	return c.name
}

// Vehicle returns the courier's transport profile.
func (c *Courier) Vehicle() Vehicle {
	return c.vehicle
}

// Online reports whether the courier is on shift.
func (c *Courier) Online() bool {
	return c.online
}

// Availability returns the courier's dispatch availability.
func (c *Courier) Availability() Availability {
	return c.availability
}

// Position returns the last reported position, nil if never reported.
func (c *Courier) Position() *kernel.GeoPoint {
	return c.position
}

// LastPositionAt returns when the position was last reported.
func (c *Courier) LastPositionAt() *time.Time {
	return c.lastPositionAt
}

// Deliveries returns the completed delivery count.
func (c *Courier) Deliveries() int {
	return c.deliveries
}

// LastDeliveredAt returns when the courier last completed a delivery,
// nil if they never have. Ranking treats nil as idle the longest.
func (c *Courier) LastDeliveredAt() *time.Time {
	return c.lastDeliveredAt
}

// IsDispatchable reports whether the courier may receive dispatch offers.
func (c *Courier) IsDispatchable() bool {
	return c.online && c.availability == Available
}

// GoOnline puts the courier on shift.
func (c *Courier) GoOnline() {
	c.online = true
}

// GoOffline takes the courier off shift. Availability is untouched: a Busy
// courier going offline still owns the in-flight order.
func (c *Courier) GoOffline() {
	c.online = false
}

// MarkBusy flags the courier as carrying an order. Called when an offer is
// accepted. Returns a conflict when the courier is already Busy, which means
// a concurrent acceptance won.
func (c *Courier) MarkBusy() error {
	if c.availability == Busy {
		return errs.NewConflictError("courier is already busy")
	}
	c.availability = Busy
	return nil
}

// Release returns the courier to Available without crediting a delivery.
// Used when the in-flight order is cancelled.
func (c *Courier) Release() {
	c.availability = Available
}

// CompleteDelivery credits a finished delivery: increments the counter,
// stamps lastDeliveredAt, and returns the courier to Available.
func (c *Courier) CompleteDelivery(at time.Time) {
	c.deliveries++
	c.lastDeliveredAt = &at
	c.availability = Available
}

// UpdatePosition records a position report. Reports are last-write-wins;
// callers pass the receive time so stale retries never move the clock back.
func (c *Courier) UpdatePosition(position kernel.GeoPoint, at time.Time) error {
	if err := position.Validate(); err != nil {
		return err
	}
	if c.lastPositionAt != nil && at.Before(*c.lastPositionAt) {
		return nil
	}

	c.position = &position
	c.lastPositionAt = &at
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setVehicle(vehicle Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	c.vehicle = vehicle
	return nil
}
