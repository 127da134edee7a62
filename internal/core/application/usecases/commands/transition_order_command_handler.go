package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// pointsPerMoneyUnit converts an order total into awarded loyalty points.
const pointsPerMoneyUnit = 100

// TransitionOrderCommandHandler orchestrates order lifecycle transitions.
//
// The domain aggregate decides whether the transition is legal for the actor;
// this handler coordinates the cross-aggregate side effects inside one
// transaction:
//   - cancellation restores stock exactly once and releases the courier
//   - delivery credits the courier and stamps the delivery time
//
// The status write is conditional on the previously read status, so two
// concurrent transitions on the same order cannot both apply; the loser gets
// errs.ErrConflict.
//
// Post-commit, the handler publishes order_status_changed to every interested
// room, triggers dispatch when the order enters Preparing, and on delivery
// awards loyalty points best effort.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	points     ports.PointsClient
	dispatch   DispatchTrigger
	logger     *slog.Logger
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	points ports.PointsClient,
	dispatch DispatchTrigger,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		points:     points,
		dispatch:   dispatch,
		logger:     logger.With("component", "transition_order"),
	}
}

// Handle processes the transition command. A no-op transition (target equals
// the current status) succeeds without side effects or events.
func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
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

	if err = h.checkMerchantOwnership(aggregate, cmd.Actor()); err != nil {
		return err
	}

	previous := aggregate.Status()
	previousCourierID := aggregate.CourierID()

	changed, err := aggregate.TransitionTo(cmd.Target(), cmd.Actor(), now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	switch cmd.Target() {
	case order.Cancelled:
		if err = h.applyCancellation(ctx, uow, aggregate, previousCourierID, now); err != nil {
			return err
		}
	case order.Delivered:
		if err = h.applyDelivery(ctx, uow, aggregate, now); err != nil {
			return err
		}
	}

	if err = orderRepo.UpdateStatus(ctx, aggregate, previous); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.afterCommit(ctx, aggregate, previous, previousCourierID)

	return nil
}

// checkMerchantOwnership rejects merchants acting on other merchants' orders.
// Courier-assignment checks live in the aggregate; this one needs the order's
// merchant reference, which the status table does not see.
func (h *TransitionOrderCommandHandler) checkMerchantOwnership(aggregate *order.Order, actor kernel.Actor) error {
	if !actor.Is(kernel.RoleMerchant) {
		return nil
	}
	if aggregate.MerchantID() == nil || !aggregate.MerchantID().IsEqual(actor.ID) {
		return errs.NewNotAuthorizedErrorWithCause("order transition",
			fmt.Errorf("merchant %s does not own order %s", actor.ID, aggregate.Code()))
	}
	return nil
}

// applyCancellation restores stock at most once, flags a settled payment for
// refund, and releases the courier who was carrying the order, all within
// the surrounding transaction.
func (h *TransitionOrderCommandHandler) applyCancellation(
	ctx context.Context,
	uow UoW,
	aggregate *order.Order,
	previousCourierID *kernel.UUID,
	now time.Time,
) error {
	if aggregate.PaymentStatus() == order.PaymentPaid {
		if err := aggregate.SetPaymentStatus(order.PaymentRefunded, now); err != nil {
			return err
		}
	}

	if aggregate.MarkStockRestored(now) {
		productRepo := uow.ProductRepository()
		for _, item := range aggregate.Items() {
			if err := productRepo.RestoreStock(ctx, item.ProductID(), item.Quantity()); err != nil {
				return err
			}
		}
	}

	if previousCourierID == nil {
		return nil
	}

	courierRepo := uow.CourierRepository()
	assigned, err := courierRepo.Get(ctx, *previousCourierID)
	if err != nil {
		return err
	}
	assigned.Release()
	return courierRepo.Update(ctx, assigned)
}

// applyDelivery credits the delivering courier and returns them to the pool.
func (h *TransitionOrderCommandHandler) applyDelivery(ctx context.Context, uow UoW, aggregate *order.Order, now time.Time) error {
	if aggregate.CourierID() == nil {
		return nil
	}

	courierRepo := uow.CourierRepository()
	assigned, err := courierRepo.Get(ctx, *aggregate.CourierID())
	if err != nil {
		return err
	}
	assigned.CompleteDelivery(now)
	return courierRepo.Update(ctx, assigned)
}

func (h *TransitionOrderCommandHandler) afterCommit(
	ctx context.Context,
	aggregate *order.Order,
	previous order.Status,
	previousCourierID *kernel.UUID,
) {
	payload := map[string]any{
		"orderId": aggregate.ID().String(),
		"code":    aggregate.Code().String(),
		"from":    previous.String(),
		"to":      aggregate.Status().String(),
	}

	rooms := []ports.Room{
		ports.OrderRoom(aggregate.ID()),
		ports.CustomerRoom(aggregate.CustomerID()),
		ports.AdminOrdersRoom,
	}
	if aggregate.MerchantID() != nil {
		rooms = append(rooms, ports.MerchantRoom(*aggregate.MerchantID()))
	}
	if courierID := h.relevantCourier(aggregate, previousCourierID); courierID != nil {
		rooms = append(rooms, ports.CourierRoom(*courierID))
	}
	for _, room := range rooms {
		h.notifier.Publish(ports.Event{Name: ports.EventOrderStatusChanged, Room: room, Data: payload})
	}

	switch aggregate.Status() {
	case order.Preparing:
		if !aggregate.IsPickup() {
			h.dispatch.TriggerDispatch(aggregate.ID())
		}
	case order.Delivered:
		h.awardPoints(ctx, aggregate)
		h.notifier.Publish(ports.Event{
			Name: ports.EventOrderDelivered,
			Room: ports.CustomerRoom(aggregate.CustomerID()),
			Data: map[string]any{
				"orderId": aggregate.ID().String(),
				"code":    aggregate.Code().String(),
			},
		})
	}
}

// relevantCourier is the courier who should hear about this change: the one
// still assigned, or the one just released by a cancellation.
func (h *TransitionOrderCommandHandler) relevantCourier(aggregate *order.Order, previousCourierID *kernel.UUID) *kernel.UUID {
	if aggregate.CourierID() != nil {
		return aggregate.CourierID()
	}
	return previousCourierID
}

func (h *TransitionOrderCommandHandler) awardPoints(ctx context.Context, aggregate *order.Order) {
	amount := aggregate.Total() / pointsPerMoneyUnit
	if amount <= 0 {
		return
	}
	if err := h.points.Award(ctx, aggregate.CustomerID(), aggregate.ID(), amount); err != nil {
		h.logger.WarnContext(ctx, "points award failed",
			"order", aggregate.Code().String(), "error", err)
	}
}
