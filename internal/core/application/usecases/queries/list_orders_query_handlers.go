package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

const orderSummaryColumns = `
	id,
	code,
	customer_id,
	merchant_id,
	courier_id,
	status,
	is_pickup,
	subtotal + delivery_fee - discount AS total,
	created_at,
	delivered_at
`

// GetActiveOrdersQueryHandler reads the admin board: every order in a
// non-terminal status.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for the admin board.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the board query.
func (h GetActiveOrdersQueryHandler) Handle(ctx context.Context, query GetActiveOrdersQuery) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderSummaryColumns+`
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY created_at DESC
	`, int(order.Delivered), int(order.Cancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrderSummaries(rows)
}

// GetCustomerOrdersQueryHandler reads one customer's order history.
type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerOrdersQueryHandler creates a handler for customer histories.
func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

// Handle executes the history query.
func (h GetCustomerOrdersQueryHandler) Handle(ctx context.Context, query GetCustomerOrdersQuery) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderSummaryColumns+`
		FROM orders
		WHERE customer_id = ?
		ORDER BY created_at DESC
	`, query.CustomerID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrderSummaries(rows)
}

func scanOrderSummaries(rows *sql.Rows) ([]OrderSummaryResponse, error) {
	summaries := make([]OrderSummaryResponse, 0)

	for rows.Next() {
		summary, err := scanOrderSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func scanOrderSummary(row rowScanner) (OrderSummaryResponse, error) {
	var summary OrderSummaryResponse
	var id, customerID uuid.UUID
	var merchantID, courierID *uuid.UUID
	var status int
	var total int64
	var createdAt time.Time
	var deliveredAt sql.NullTime

	err := row.Scan(
		&id,
		&summary.Code,
		&customerID,
		&merchantID,
		&courierID,
		&status,
		&summary.IsPickup,
		&total,
		&createdAt,
		&deliveredAt,
	)
	if err != nil {
		return OrderSummaryResponse{}, err
	}

	summary.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderSummaryResponse{}, err
	}
	summary.CustomerID, err = kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return OrderSummaryResponse{}, err
	}
	summary.MerchantID, err = optionalUUID(merchantID)
	if err != nil {
		return OrderSummaryResponse{}, err
	}
	summary.CourierID, err = optionalUUID(courierID)
	if err != nil {
		return OrderSummaryResponse{}, err
	}

	summary.Status = order.Status(status).String()
	summary.Total = kernel.Money(total)
	summary.CreatedAt = createdAt
	if deliveredAt.Valid {
		t := deliveredAt.Time
		summary.DeliveredAt = &t
	}

	return summary, nil
}
