package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateCourierCommandIsNotConstructed = errors.New(
	"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
)

// CreateCourierCommand represents a request to register a courier in the fleet.
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	vehicle   courier.Vehicle

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a validated registration command.
func NewCreateCourierCommand(courierID kernel.UUID, name string, vehicle courier.Vehicle) (CreateCourierCommand, error) {
	cmd := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setName(name),
		cmd.setVehicle(vehicle),
	); err != nil {
		return CreateCourierCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the identifier for the new courier.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's name.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Vehicle returns the courier's transport profile.
func (c CreateCourierCommand) Vehicle() courier.Vehicle {
	return c.vehicle
}

func (c *CreateCourierCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateCourierCommand) setVehicle(vehicle courier.Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	c.vehicle = vehicle
	return nil
}
