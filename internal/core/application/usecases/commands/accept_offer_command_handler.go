package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// AcceptOfferCommandHandler assigns an order to the accepting courier.
//
// The domain aggregate checks the acceptance preconditions, but the
// authoritative arbiter is the repository's conditional assignment write:
// when two couriers race for the same order, exactly one UPDATE matches and
// the loser receives errs.ErrConflict ("too late"). Losers must not retry.
type AcceptOfferCommandHandler struct {
	uowFactory FleetUoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewAcceptOfferCommandHandler creates a handler for offer acceptance.
func NewAcceptOfferCommandHandler(uowFactory FleetUoWFactory, notifier ports.Notifier, logger *slog.Logger) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "accept_offer"),
	}
}

// Handle processes the acceptance command.
func (h *AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) error {
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

	if err = aggregate.AcceptOffer(cmd.CourierID(), now); err != nil {
		return err
	}

	courierRepo := uow.CourierRepository()
	accepting, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = accepting.MarkBusy(); err != nil {
		return err
	}

	if err = orderRepo.AcceptOffer(ctx, aggregate); err != nil {
		return err
	}
	if err = courierRepo.Update(ctx, accepting); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.afterCommit(aggregate, cmd)

	return nil
}

func (h *AcceptOfferCommandHandler) afterCommit(aggregate *order.Order, cmd AcceptOfferCommand) {
	h.notifier.Publish(ports.Event{
		Name: ports.EventOfferResolved,
		Room: ports.CourierRoom(cmd.CourierID()),
		Data: map[string]any{
			"orderId":  aggregate.ID().String(),
			"code":     aggregate.Code().String(),
			"accepted": true,
		},
	})

	payload := map[string]any{
		"orderId":   aggregate.ID().String(),
		"code":      aggregate.Code().String(),
		"to":        aggregate.Status().String(),
		"courierId": cmd.CourierID().String(),
	}
	rooms := []ports.Room{
		ports.OrderRoom(aggregate.ID()),
		ports.CustomerRoom(aggregate.CustomerID()),
		ports.AdminOrdersRoom,
	}
	if aggregate.MerchantID() != nil {
		rooms = append(rooms, ports.MerchantRoom(*aggregate.MerchantID()))
	}
	for _, room := range rooms {
		h.notifier.Publish(ports.Event{Name: ports.EventOrderStatusChanged, Room: room, Data: payload})
	}
}
