package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrDeclineOfferCommandIsNotConstructed = errors.New(
	"DeclineOfferCommand must be created via NewDeclineOfferCommand constructor",
)

// DeclineOfferCommand represents a courier rejecting their pending offer.
type DeclineOfferCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeclineOfferCommand creates a validated decline command.
func NewDeclineOfferCommand(orderID, courierID kernel.UUID) (DeclineOfferCommand, error) {
	cmd := DeclineOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCourierID(courierID),
	); err != nil {
		return DeclineOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclineOfferCommand) Validate() error {
	return c.guard.Validate(ErrDeclineOfferCommandIsNotConstructed)
}

// OrderID returns the order whose offer is declined.
func (c DeclineOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the declining courier.
func (c DeclineOfferCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *DeclineOfferCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *DeclineOfferCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
