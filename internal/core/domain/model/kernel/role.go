package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Role identifies the kind of actor performing an operation.
// Authorization for order lifecycle transitions is decided per role.
type Role string

const (
	// RoleCustomer is the order owner: places orders and may cancel early ones.
	RoleCustomer Role = "customer"
	// RoleMerchant prepares orders for its own store.
	RoleMerchant Role = "merchant"
	// RoleCourier delivers orders it has been assigned to.
	RoleCourier Role = "courier"
	// RoleAdmin operates the marketplace console and may override transitions.
	RoleAdmin Role = "admin"
)

// Validate checks that the role is one of the known values.
func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleMerchant, RoleCourier, RoleAdmin:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%q is not a valid role", string(r)))
	}
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated principal behind a request: who they are and in
// which role they act. Authentication itself happens at the transport boundary;
// the domain only consumes the resulting identity.
type Actor struct {
	ID   UUID
	Role Role
}

// NewActor creates a validated Actor.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

// Validate checks the actor's identity and role.
func (a Actor) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return err
	}
	return a.Role.Validate()
}

// Is reports whether the actor acts in the given role.
func (a Actor) Is(role Role) bool {
	return a.Role == role
}
