package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand requests a dispatch pass for one order: rank the
// eligible couriers and place a time-boxed offer with the best one.
type DispatchOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDispatchOrderCommand creates a validated dispatch command.
func NewDispatchOrderCommand(orderID kernel.UUID) (DispatchOrderCommand, error) {
	cmd := DispatchOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return DispatchOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

// OrderID returns the order to dispatch.
func (c DispatchOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *DispatchOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}
