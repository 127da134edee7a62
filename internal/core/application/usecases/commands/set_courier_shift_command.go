package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrSetCourierShiftCommandIsNotConstructed = errors.New(
	"SetCourierShiftCommand must be created via NewSetCourierShiftCommand constructor",
)

// SetCourierShiftCommand toggles a courier's on-shift flag.
type SetCourierShiftCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	online    bool

	guard guard.ConstructorGuard
}

// NewSetCourierShiftCommand creates a validated shift toggle command.
func NewSetCourierShiftCommand(courierID kernel.UUID, online bool) (SetCourierShiftCommand, error) {
	cmd := SetCourierShiftCommand{
		online: online,
		guard:  guard.NewConstructorGuard(),
	}

	if err := cmd.setCourierID(courierID); err != nil {
		return SetCourierShiftCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetCourierShiftCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierShiftCommandIsNotConstructed)
}

// CourierID returns the courier toggling their shift.
func (c SetCourierShiftCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Online reports the requested shift state.
func (c SetCourierShiftCommand) Online() bool {
	return c.online
}

func (c *SetCourierShiftCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
