package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// UpdatePaymentStatusCommandHandler records payment outcomes on an order.
// Only admins and the order's own merchant may set the flag; the aggregate
// rejects anything but a refund once the order is terminal.
type UpdatePaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdatePaymentStatusCommandHandler creates a handler for payment flag updates.
func NewUpdatePaymentStatusCommandHandler(uowFactory OrderUoWFactory) UpdatePaymentStatusCommandHandler {
	return UpdatePaymentStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the payment flag update.
func (h *UpdatePaymentStatusCommandHandler) Handle(ctx context.Context, cmd UpdatePaymentStatusCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.checkAuthorization(aggregate, cmd.Actor()); err != nil {
		return err
	}

	if err = aggregate.SetPaymentStatus(cmd.Status(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *UpdatePaymentStatusCommandHandler) checkAuthorization(aggregate *order.Order, actor kernel.Actor) error {
	if actor.Is(kernel.RoleAdmin) {
		return nil
	}
	if actor.Is(kernel.RoleMerchant) &&
		aggregate.MerchantID() != nil && aggregate.MerchantID().IsEqual(actor.ID) {
		return nil
	}
	return errs.NewNotAuthorizedErrorWithCause("payment status update",
		fmt.Errorf("%s %s cannot set payment on order %s", actor.Role, actor.ID, aggregate.Code()))
}
