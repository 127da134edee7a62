package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
)

// DeclineOfferCommandHandler clears a courier's pending offer, records the
// decline for ranking exclusion, and immediately triggers the next dispatch
// pass so the order moves down the candidate list without waiting for the
// expiry sweep.
type DeclineOfferCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatch   DispatchTrigger
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewDeclineOfferCommandHandler creates a handler for offer declines.
func NewDeclineOfferCommandHandler(
	uowFactory OrderUoWFactory,
	dispatch DispatchTrigger,
	notifier ports.Notifier,
	logger *slog.Logger,
) DeclineOfferCommandHandler {
	return DeclineOfferCommandHandler{
		uowFactory: uowFactory,
		dispatch:   dispatch,
		notifier:   notifier,
		logger:     logger.With("component", "decline_offer"),
	}
}

// Handle processes the decline command. Declining an offer the courier no
// longer holds (it expired or moved on) returns errs.ErrConflict.
func (h *DeclineOfferCommandHandler) Handle(ctx context.Context, cmd DeclineOfferCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

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

	if err = aggregate.DeclineOffer(cmd.CourierID(), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Publish(ports.Event{
		Name: ports.EventOfferResolved,
		Room: ports.CourierRoom(cmd.CourierID()),
		Data: map[string]any{
			"orderId":  aggregate.ID().String(),
			"code":     aggregate.Code().String(),
			"accepted": false,
		},
	})

	h.dispatch.TriggerDispatch(aggregate.ID())

	return nil
}
