package commands

import (
	"context"
)

// SetCourierShiftCommandHandler toggles a courier's shift. Going offline
// keeps an in-flight assignment: the courier finishes the delivery they
// carry, they just stop receiving new offers.
type SetCourierShiftCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewSetCourierShiftCommandHandler creates a handler for shift toggles.
func NewSetCourierShiftCommandHandler(uowFactory CourierUoWFactory) SetCourierShiftCommandHandler {
	return SetCourierShiftCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the shift toggle.
func (h *SetCourierShiftCommandHandler) Handle(ctx context.Context, cmd SetCourierShiftCommand) error {
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

	courierRepo := uow.CourierRepository()
	toggling, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if cmd.Online() {
		toggling.GoOnline()
	} else {
		toggling.GoOffline()
	}

	if err = courierRepo.Update(ctx, toggling); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
