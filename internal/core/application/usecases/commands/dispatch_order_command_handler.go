package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ExclusionPolicy controls how long a declined courier stays excluded from
// an order's dispatch.
type ExclusionPolicy string

const (
	// ExcludeForOrder keeps decliners excluded for the order's lifetime.
	ExcludeForOrder ExclusionPolicy = "order"
	// ExcludeForPass forgets declines once a ranking pass exhausts the pool,
	// giving decliners another chance on the next pass.
	ExcludeForPass ExclusionPolicy = "pass"
)

// Validate ensures the policy is one of the known values.
func (p ExclusionPolicy) Validate() error {
	switch p {
	case ExcludeForOrder, ExcludeForPass:
		return nil
	default:
		return errs.NewValueIsInvalidError("exclusion policy")
	}
}

// DispatchOrderCommandHandler runs one dispatch pass: load the order, rank
// the eligible fleet, and place a time-boxed exclusive offer with the best
// candidate.
//
// A dispatch pass never fails the caller for business reasons. Orders that
// are not offerable (pickup, already assigned, live offer outstanding) and
// exhausted pools both complete silently; an exhausted pool leaves the order
// in the dashboard's open pool where the first volunteer wins.
//
// The offer write is conditional, so two concurrent passes on the same order
// place at most one offer; the loser logs and walks away.
type DispatchOrderCommandHandler struct {
	uowFactory FleetUoWFactory
	dispatcher services.Dispatcher
	offerTTL   time.Duration
	policy     ExclusionPolicy
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewDispatchOrderCommandHandler creates a handler for dispatch passes.
func NewDispatchOrderCommandHandler(
	uowFactory FleetUoWFactory,
	dispatcher services.Dispatcher,
	offerTTL time.Duration,
	policy ExclusionPolicy,
	notifier ports.Notifier,
	logger *slog.Logger,
) (DispatchOrderCommandHandler, error) {
	if offerTTL <= 0 {
		return DispatchOrderCommandHandler{}, errs.NewValueIsInvalidError("offer TTL")
	}
	if err := policy.Validate(); err != nil {
		return DispatchOrderCommandHandler{}, err
	}

	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		offerTTL:   offerTTL,
		policy:     policy,
		notifier:   notifier,
		logger:     logger.With("component", "dispatch_order"),
	}, nil
}

// Handle processes the dispatch command.
func (h *DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) error {
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

	if !h.isOfferable(aggregate, now) {
		return nil
	}

	candidates, err := uow.CourierRepository().GetAllDispatchable(ctx, now)
	if err != nil {
		return err
	}

	best, err := h.pickBest(aggregate, candidates, now)
	if err != nil {
		return err
	}
	if best == nil {
		// Pool exhausted. Persist any cleared declines and leave the order
		// for the open pool.
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}
		h.logger.InfoContext(ctx, "dispatch pool exhausted",
			"order", aggregate.Code().String())
		return nil
	}

	expiresAt := now.Add(h.offerTTL)
	if err = aggregate.OfferTo(best.ID(), expiresAt, now); err != nil {
		return err
	}

	if err = orderRepo.OfferTo(ctx, aggregate); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			h.logger.InfoContext(ctx, "offer lost to concurrent dispatch",
				"order", aggregate.Code().String())
			return nil
		}
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publishOffer(aggregate, best, expiresAt)

	return nil
}

func (h *DispatchOrderCommandHandler) isOfferable(aggregate *order.Order, now time.Time) bool {
	if aggregate.IsPickup() {
		return false
	}
	if aggregate.CourierID() != nil {
		return false
	}
	if !aggregate.Status().CanHoldOffer() {
		return false
	}
	if aggregate.HasLiveOffer(now) {
		return false
	}
	return true
}

// pickBest ranks the candidates and returns the winner, or nil when the pool
// is exhausted. Under the one-pass policy an exhausted pool clears the
// order's declines and ranks once more.
func (h *DispatchOrderCommandHandler) pickBest(
	aggregate *order.Order,
	candidates []*courier.Courier,
	now time.Time,
) (*courier.Courier, error) {
	ranked, err := h.dispatcher.Rank(*aggregate.PickupPoint(), candidates, aggregate.DeclinedCouriers())
	if err != nil {
		return nil, err
	}

	if len(ranked) == 0 && h.policy == ExcludeForPass && len(aggregate.DeclinedCouriers()) > 0 {
		aggregate.ClearDeclines(now)
		ranked, err = h.dispatcher.Rank(*aggregate.PickupPoint(), candidates, nil)
		if err != nil {
			return nil, err
		}
	}

	if len(ranked) == 0 {
		return nil, nil
	}
	return ranked[0], nil
}

// publishOffer tells the winning courier about their offer. The payload
// carries the courier's own leg to the pickup (the distance they were ranked
// by) next to the delivery leg, so the courier can weigh the full trip.
func (h *DispatchOrderCommandHandler) publishOffer(aggregate *order.Order, best *courier.Courier, expiresAt time.Time) {
	payload := map[string]any{
		"orderId":   aggregate.ID().String(),
		"code":      aggregate.Code().String(),
		"earnings":  int64(aggregate.DeliveryFee()),
		"expiresAt": expiresAt.Format(time.RFC3339),
	}

	tripKm := 0.0
	if approach, err := h.dispatcher.ApproachKm(*aggregate.PickupPoint(), best); err == nil {
		payload["pickupKm"] = approach
		tripKm += approach
	}
	if aggregate.DistanceKm() != nil {
		payload["distanceKm"] = *aggregate.DistanceKm()
		tripKm += *aggregate.DistanceKm()
	}
	if tripKm > 0 {
		if eta, err := services.TravelTime(tripKm, best.Vehicle()); err == nil {
			payload["etaMinutes"] = eta
		}
	}

	h.notifier.Publish(ports.Event{
		Name: ports.EventOfferCreated,
		Room: ports.CourierRoom(best.ID()),
		Data: payload,
	})
}
