package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ExpireOffersCommandHandler clears dispatch offers whose deadline passed.
//
// Each expired order is updated in its own short transaction and then handed
// back to the dispatch trigger; a courier who accepted in the window between
// the read and the write keeps the order, because ExpireOffer refuses to
// clear an assigned row and the conditional update in the repository mirrors
// that.
type ExpireOffersCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatch   DispatchTrigger
	logger     *slog.Logger
}

// NewExpireOffersCommandHandler creates a handler for the expiry sweep.
func NewExpireOffersCommandHandler(uowFactory OrderUoWFactory, dispatch DispatchTrigger, logger *slog.Logger) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory: uowFactory,
		dispatch:   dispatch,
		logger:     logger.With("component", "expire_offers"),
	}
}

// Handle processes one sweep. Individual order failures are logged and do
// not stop the sweep.
func (h *ExpireOffersCommandHandler) Handle(ctx context.Context, cmd ExpireOffersCommand) error {
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
	expired, err := orderRepo.GetExpiredOffers(ctx, now)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	redispatch := make([]kernel.UUID, 0, len(expired))
	for _, aggregate := range expired {
		if !aggregate.ExpireOffer(now) {
			continue
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			h.logger.ErrorContext(ctx, "failed to clear expired offer",
				"order", aggregate.Code().String(), "error", err)
			continue
		}
		redispatch = append(redispatch, aggregate.ID())
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, orderID := range redispatch {
		h.dispatch.TriggerDispatch(orderID)
	}

	return nil
}
