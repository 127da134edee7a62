package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateCourierPositionCommandIsNotConstructed = errors.New(
	"UpdateCourierPositionCommand must be created via NewUpdateCourierPositionCommand constructor",
)

// UpdateCourierPositionCommand represents a position report from a courier's
// device. Reports are last-write-wins; there is no movement history.
type UpdateCourierPositionCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	position  kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateCourierPositionCommand creates a validated position report.
func NewUpdateCourierPositionCommand(courierID kernel.UUID, position kernel.GeoPoint) (UpdateCourierPositionCommand, error) {
	cmd := UpdateCourierPositionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setPosition(position),
	); err != nil {
		return UpdateCourierPositionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCourierPositionCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierPositionCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c UpdateCourierPositionCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Position returns the reported coordinates.
func (c UpdateCourierPositionCommand) Position() kernel.GeoPoint {
	return c.position
}

func (c *UpdateCourierPositionCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}

func (c *UpdateCourierPositionCommand) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}
	c.position = position
	return nil
}
