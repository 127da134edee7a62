package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAcceptOfferCommandIsNotConstructed = errors.New(
	"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
)

// AcceptOfferCommand represents a courier accepting a dispatch offer, or
// volunteering for an order sitting in the open pool.
type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOfferCommand creates a validated acceptance command.
func NewAcceptOfferCommand(orderID, courierID kernel.UUID) (AcceptOfferCommand, error) {
	cmd := AcceptOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCourierID(courierID),
	); err != nil {
		return AcceptOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

// OrderID returns the order being accepted.
func (c AcceptOfferCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the accepting courier.
func (c AcceptOfferCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *AcceptOfferCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AcceptOfferCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
