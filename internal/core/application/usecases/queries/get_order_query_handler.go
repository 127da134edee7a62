package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GetOrderQueryHandler reads one order row and its items.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns errs.ErrObjectNotFound when no order
// matches.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			customer_id,
			merchant_id,
			status,
			payment_status,
			is_pickup,
			courier_id,
			pending_courier_id,
			offer_expires_at,
			subtotal,
			delivery_fee,
			discount,
			distance_km,
			created_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	resp, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	items, err := h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Items = items

	return resp, nil
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, orderID kernel.UUID) ([]OrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT product_id, name, unit_price, quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY name
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	for rows.Next() {
		var productID uuid.UUID
		var item OrderItemResponse
		var unitPrice int64

		if err = rows.Scan(&productID, &item.Name, &unitPrice, &item.Quantity); err != nil {
			return nil, err
		}

		item.ProductID, err = kernel.UUIDFromBytes(productID[:])
		if err != nil {
			return nil, err
		}
		item.UnitPrice = kernel.Money(unitPrice)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrderRow maps one orders row into a response. The column list must
// match the SELECT in Handle and in the listing handlers.
func scanOrderRow(row rowScanner) (GetOrderQueryResponse, error) {
	var resp GetOrderQueryResponse
	var id, customerID uuid.UUID
	var merchantID, courierID, pendingCourierID *uuid.UUID
	var status, paymentStatus int
	var offerExpiresAt, deliveredAt sql.NullTime
	var subtotal, deliveryFee, discount int64
	var distanceKm sql.NullFloat64
	var createdAt time.Time

	err := row.Scan(
		&id,
		&resp.Code,
		&customerID,
		&merchantID,
		&status,
		&paymentStatus,
		&resp.IsPickup,
		&courierID,
		&pendingCourierID,
		&offerExpiresAt,
		&subtotal,
		&deliveryFee,
		&discount,
		&distanceKm,
		&createdAt,
		&deliveredAt,
	)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.MerchantID, err = optionalUUID(merchantID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.CourierID, err = optionalUUID(courierID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.PendingCourierID, err = optionalUUID(pendingCourierID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.Status = order.Status(status).String()
	resp.PaymentStatus = order.PaymentStatus(paymentStatus).String()
	resp.Subtotal = kernel.Money(subtotal)
	resp.DeliveryFee = kernel.Money(deliveryFee)
	resp.Discount = kernel.Money(discount)
	resp.Total = resp.Subtotal + resp.DeliveryFee - resp.Discount
	resp.CreatedAt = createdAt

	if offerExpiresAt.Valid {
		t := offerExpiresAt.Time
		resp.OfferExpiresAt = &t
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time
		resp.DeliveredAt = &t
	}
	if distanceKm.Valid {
		d := distanceKm.Float64
		resp.DistanceKm = &d
	}

	return resp, nil
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	restored, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &restored, nil
}
