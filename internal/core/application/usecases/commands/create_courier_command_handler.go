package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
)

// CreateCourierCommandHandler registers a new courier in the fleet.
// Couriers start offline; they appear in dispatch only after going on shift.
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewCreateCourierCommandHandler creates a handler for courier registration.
func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command.
func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	registered, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Vehicle())
	if err != nil {
		return err
	}

	if err = uow.CourierRepository().Add(ctx, registered); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
