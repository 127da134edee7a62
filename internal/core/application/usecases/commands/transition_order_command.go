package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move an order to a target
// lifecycle status on behalf of an authenticated actor.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a validated transition command.
func NewTransitionOrderCommand(orderID kernel.UUID, target order.Status, actor kernel.Actor) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested lifecycle status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// Actor returns who is requesting the transition.
func (c TransitionOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
