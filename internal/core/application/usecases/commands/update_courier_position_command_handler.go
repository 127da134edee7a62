package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
)

// UpdateCourierPositionCommandHandler records a courier position report and
// ticks posicion_repartidor to the rooms of the courier's in-flight orders
// so customers watch the marker move.
type UpdateCourierPositionCommandHandler struct {
	uowFactory FleetUoWFactory
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewUpdateCourierPositionCommandHandler creates a handler for position reports.
func NewUpdateCourierPositionCommandHandler(uowFactory FleetUoWFactory, notifier ports.Notifier, logger *slog.Logger) UpdateCourierPositionCommandHandler {
	return UpdateCourierPositionCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "courier_position"),
	}
}

// Handle processes the position report.
func (h *UpdateCourierPositionCommandHandler) Handle(ctx context.Context, cmd UpdateCourierPositionCommand) error {
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

	courierRepo := uow.CourierRepository()
	reporting, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = reporting.UpdatePosition(cmd.Position(), now); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, reporting); err != nil {
		return err
	}

	active, err := uow.OrderRepository().GetAllForCourier(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	payload := map[string]any{
		"courierId": cmd.CourierID().String(),
		"lat":       cmd.Position().Lat(),
		"lng":       cmd.Position().Lng(),
	}
	for _, aggregate := range active {
		h.notifier.Publish(ports.Event{
			Name: ports.EventCourierPosition,
			Room: ports.OrderRoom(aggregate.ID()),
			Data: payload,
		})
		h.notifier.Publish(ports.Event{
			Name: ports.EventCourierPosition,
			Room: ports.CustomerRoom(aggregate.CustomerID()),
			Data: payload,
		})
	}

	return nil
}
