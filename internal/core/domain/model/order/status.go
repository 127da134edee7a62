package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with an explicit transition table so that
// every "who may move an order from A to B" decision lives in one place.
//
// Normal path:
//
//	Pending -> Confirmed -> Preparing -> Ready
//	  -> DriverAssigned -> DriverArrived -> PickedUp -> InDelivery -> Delivered
//
// Cancelled is reachable from Pending or Confirmed by the customer, and from
// any non-terminal state by an admin override. Delivered and Cancelled are
// terminal: no further transitions are permitted past them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status right after checkout, before the
	// merchant has confirmed the order.
	Pending

	// Confirmed indicates the merchant has accepted the order.
	Confirmed

	// Preparing indicates the merchant is preparing the order.
	// Entering this status triggers courier dispatch for delivery orders.
	Preparing

	// Ready indicates the order is packed and waiting for pickup.
	Ready

	// DriverAssigned indicates a courier has accepted the delivery offer.
	DriverAssigned

	// DriverArrived indicates the courier reached the pickup point.
	DriverArrived

	// PickedUp indicates the courier collected the order.
	PickedUp

	// InDelivery indicates the courier is en route to the customer.
	InDelivery

	// Delivered is the terminal success state.
	Delivered

	// Cancelled is the terminal failure state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their wire names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Preparing:      "PREPARING",
		Ready:          "READY",
		DriverAssigned: "DRIVER_ASSIGNED",
		DriverArrived:  "DRIVER_ARRIVED",
		PickedUp:       "PICKED_UP",
		InDelivery:     "IN_DELIVERY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// StatusFromString parses a Status from its wire name.
// Returns an error for unknown names, including "UNKNOWN" itself.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, e.g. "DRIVER_ASSIGNED".
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanHoldOffer reports whether a dispatch offer may be pending while the
// order is in this status. Offers only exist between the start of
// preparation and courier assignment.
func (s Status) CanHoldOffer() bool {
	return s == Preparing || s == Ready
}

// IsAssignedBand reports whether the status implies an assigned courier.
// Delivered is included: the courier reference stays on the order for the
// record after completion even though the courier itself is released.
func (s Status) IsAssignedBand() bool {
	switch s {
	case DriverAssigned, DriverArrived, PickedUp, InDelivery, Delivered:
		return true
	default:
		return false
	}
}

// transitionRules is the single source of truth for which role may move an
// order from one status to which next status. A missing entry means the
// transition is never allowed, for anyone.
func transitionRules() map[Status]map[Status][]kernel.Role {
	return map[Status]map[Status][]kernel.Role{
		Pending: {
			Confirmed: {kernel.RoleMerchant, kernel.RoleAdmin},
			Cancelled: {kernel.RoleCustomer, kernel.RoleAdmin},
		},
		Confirmed: {
			Preparing: {kernel.RoleMerchant, kernel.RoleAdmin},
			Cancelled: {kernel.RoleCustomer, kernel.RoleAdmin},
		},
		Preparing: {
			Ready:     {kernel.RoleMerchant, kernel.RoleAdmin},
			Cancelled: {kernel.RoleAdmin},
		},
		Ready: {
			DriverAssigned: {kernel.RoleAdmin},
			Cancelled:      {kernel.RoleAdmin},
		},
		DriverAssigned: {
			DriverArrived: {kernel.RoleCourier, kernel.RoleAdmin},
			Cancelled:     {kernel.RoleAdmin},
		},
		DriverArrived: {
			PickedUp:  {kernel.RoleCourier, kernel.RoleAdmin},
			Cancelled: {kernel.RoleAdmin},
		},
		PickedUp: {
			InDelivery: {kernel.RoleCourier, kernel.RoleAdmin},
			Cancelled:  {kernel.RoleAdmin},
		},
		InDelivery: {
			Delivered: {kernel.RoleCourier, kernel.RoleAdmin},
			Cancelled: {kernel.RoleAdmin},
		},
	}
}

// CanTransitionTo checks whether the given role may move an order from the
// current status to the target status.
//
// Returns:
//   - nil when the transition is allowed for the role
//   - ConflictError when the transition does not exist in the lifecycle
//     (including any transition out of a terminal state)
//   - NotAuthorizedError when the transition exists but the role may not
//     perform it
func (s Status) CanTransitionTo(target Status, role kernel.Role) error {
	if err := target.Validate(); err != nil {
		return err
	}

	targets, ok := transitionRules()[s]
	if !ok {
		return errs.NewConflictErrorWithCause("order status",
			fmt.Errorf("%s is terminal, no transition to %s", s, target))
	}

	roles, ok := targets[target]
	if !ok {
		return errs.NewConflictErrorWithCause("order status",
			fmt.Errorf("cannot transition from %s to %s", s, target))
	}

	for _, r := range roles {
		if r == role {
			return nil
		}
	}

	return errs.NewNotAuthorizedErrorWithCause("order status transition",
		fmt.Errorf("role %s may not move an order from %s to %s", role, s, target))
}
