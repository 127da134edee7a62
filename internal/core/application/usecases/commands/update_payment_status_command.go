package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdatePaymentStatusCommandIsNotConstructed = errors.New(
	"UpdatePaymentStatusCommand must be created via NewUpdatePaymentStatusCommand constructor",
)

// UpdatePaymentStatusCommand represents a request to set an order's payment
// flag on behalf of an authenticated actor. Payment settlement happens
// outside this system; the command records its outcome.
type UpdatePaymentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.PaymentStatus
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

// NewUpdatePaymentStatusCommand creates a validated payment flag command.
func NewUpdatePaymentStatusCommand(
	orderID kernel.UUID,
	status order.PaymentStatus,
	actor kernel.Actor,
) (UpdatePaymentStatusCommand, error) {
	cmd := UpdatePaymentStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setStatus(status),
		cmd.setActor(actor),
	); err != nil {
		return UpdatePaymentStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdatePaymentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePaymentStatusCommandIsNotConstructed)
}

// OrderID returns the order whose payment flag changes.
func (c UpdatePaymentStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Status returns the requested payment status.
func (c UpdatePaymentStatusCommand) Status() order.PaymentStatus {
	return c.status
}

// Actor returns who is requesting the change.
func (c UpdatePaymentStatusCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *UpdatePaymentStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdatePaymentStatusCommand) setStatus(status order.PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

func (c *UpdatePaymentStatusCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
