package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// PlaceOrderCommandHandler handles checkout: it prices the cart from the
// catalog, computes the delivery fee, reserves stock, and persists the new
// order in one transaction.
//
// Stock reservation uses conditional decrements, so two carts racing for the
// last unit cannot both win; the loser's transaction rolls back and the
// customer sees an insufficient-stock conflict.
//
// Loyalty-point redemption and the new_order notification run after commit
// and are best effort: their failure never undoes a placed order.
type PlaceOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
	tariff     services.Tariff
	notifier   ports.Notifier
	points     ports.PointsClient
	logger     *slog.Logger
}

// NewPlaceOrderCommandHandler creates a handler for checkout operations.
func NewPlaceOrderCommandHandler(
	uowFactory CheckoutUoWFactory,
	tariff services.Tariff,
	notifier ports.Notifier,
	points ports.PointsClient,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		tariff:     tariff,
		notifier:   notifier,
		points:     points,
		logger:     logger.With("component", "place_order"),
	}
}

// Handle processes the checkout command and returns the placed order.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	productRepo := uow.ProductRepository()

	items, err := h.priceCart(ctx, productRepo, cmd)
	if err != nil {
		return nil, err
	}

	var subtotal kernel.Money
	for _, item := range items {
		subtotal += item.Subtotal()
	}

	deliveryFee, distanceKm, err := h.priceDelivery(cmd, subtotal)
	if err != nil {
		return nil, err
	}

	for _, cartItem := range cmd.Items() {
		if err = productRepo.DecrementStock(ctx, cartItem.ProductID, cartItem.Quantity); err != nil {
			return nil, err
		}
	}

	pickupPoint := cmd.PickupPoint()
	merchantID := cmd.MerchantID()
	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		kernel.NewOrderCode(),
		cmd.CustomerID(),
		&merchantID,
		cmd.DeliveryAddressID(),
		cmd.IsPickup(),
		&pickupPoint,
		cmd.DropoffPoint(),
		items,
		deliveryFee,
		cmd.PointsToRedeem(),
		distanceKm,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.afterCommit(ctx, cmd, newOrder)

	return newOrder, nil
}

// priceCart snapshots name and price from the catalog into line items.
// Client-supplied prices are never trusted.
func (h *PlaceOrderCommandHandler) priceCart(
	ctx context.Context,
	productRepo ports.ProductRepository,
	cmd PlaceOrderCommand,
) ([]order.LineItem, error) {
	cart := cmd.Items()
	ids := make([]kernel.UUID, len(cart))
	for i, item := range cart {
		ids[i] = item.ProductID
	}

	products, err := productRepo.GetAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID()] = p
	}

	items := make([]order.LineItem, 0, len(cart))
	for _, cartItem := range cart {
		p, ok := byID[cartItem.ProductID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", cartItem.ProductID)
		}
		if !p.Active() {
			return nil, errs.NewValueIsInvalidErrorWithCause("product",
				fmt.Errorf("product %s is not orderable", p.ID()))
		}
		if !p.MerchantID().IsEqual(cmd.MerchantID()) {
			return nil, errs.NewValueIsInvalidErrorWithCause("product",
				fmt.Errorf("product %s belongs to another merchant", p.ID()))
		}

		item, err := order.NewLineItem(p.ID(), p.Name(), p.Price(), cartItem.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (h *PlaceOrderCommandHandler) priceDelivery(cmd PlaceOrderCommand, subtotal kernel.Money) (kernel.Money, *float64, error) {
	if cmd.IsPickup() {
		return 0, nil, nil
	}

	distance, err := cmd.PickupPoint().DistanceTo(*cmd.DropoffPoint())
	if err != nil {
		return 0, nil, err
	}

	fee, err := services.DeliveryFee(distance, subtotal, h.tariff)
	if err != nil {
		return 0, nil, err
	}

	return fee, &distance, nil
}

func (h *PlaceOrderCommandHandler) afterCommit(ctx context.Context, cmd PlaceOrderCommand, placed *order.Order) {
	if discount := cmd.PointsToRedeem(); discount > 0 {
		if err := h.points.Redeem(ctx, cmd.CustomerID(), placed.ID(), discount); err != nil {
			h.logger.WarnContext(ctx, "points redemption failed",
				"order", placed.Code().String(), "error", err)
		}
	}

	summary := map[string]any{
		"orderId": placed.ID().String(),
		"code":    placed.Code().String(),
		"total":   int64(placed.Total()),
		"pickup":  placed.IsPickup(),
	}
	h.notifier.Publish(ports.Event{
		Name: ports.EventNewOrder,
		Room: ports.MerchantRoom(cmd.MerchantID()),
		Data: summary,
	})
	h.notifier.Publish(ports.Event{
		Name: ports.EventNewOrder,
		Room: ports.AdminOrdersRoom,
		Data: summary,
	})
}
