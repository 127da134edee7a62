package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

const deliveryJobColumns = `
	id,
	code,
	status,
	delivery_fee,
	distance_km,
	offer_expires_at,
	created_at
`

// GetCourierDashboardQueryHandler assembles the courier dashboard from
// three reads over the orders table.
type GetCourierDashboardQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierDashboardQueryHandler creates a handler for courier dashboards.
func NewGetCourierDashboardQueryHandler(db *gorm.DB) GetCourierDashboardQueryHandler {
	return GetCourierDashboardQueryHandler{db: db}
}

// Handle executes the dashboard query. The open pool excludes orders with a
// live offer: those are exclusively the offered courier's until the deadline
// passes.
func (h GetCourierDashboardQueryHandler) Handle(
	ctx context.Context,
	query GetCourierDashboardQuery,
) (GetCourierDashboardQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierDashboardQueryResponse{}, err
	}

	now := time.Now().UTC()
	resp := GetCourierDashboardQueryResponse{}

	offer, err := h.liveOffer(ctx, query.CourierID(), now)
	if err != nil {
		return GetCourierDashboardQueryResponse{}, err
	}
	resp.Offer = offer

	resp.OpenPool, err = h.openPool(ctx, now)
	if err != nil {
		return GetCourierDashboardQueryResponse{}, err
	}

	resp.Assignments, err = h.assignments(ctx, query.CourierID())
	if err != nil {
		return GetCourierDashboardQueryResponse{}, err
	}

	h.estimateTravel(ctx, query.CourierID(), &resp)

	return resp, nil
}

// estimateTravel annotates every job with a travel estimate based on the
// courier's vehicle. Estimation is cosmetic: a courier without a profile row
// simply gets jobs without ETAs.
func (h GetCourierDashboardQueryHandler) estimateTravel(
	ctx context.Context,
	courierID kernel.UUID,
	resp *GetCourierDashboardQueryResponse,
) {
	var vehicle int
	row := h.db.WithContext(ctx).Raw(
		`SELECT vehicle FROM couriers WHERE id = ?`, courierID.Bytes(),
	).Row()
	if err := row.Scan(&vehicle); err != nil {
		return
	}

	if resp.Offer != nil {
		annotateEta(resp.Offer, courier.Vehicle(vehicle))
	}
	for i := range resp.OpenPool {
		annotateEta(&resp.OpenPool[i], courier.Vehicle(vehicle))
	}
	for i := range resp.Assignments {
		annotateEta(&resp.Assignments[i], courier.Vehicle(vehicle))
	}
}

func annotateEta(job *DeliveryJobResponse, vehicle courier.Vehicle) {
	if job.DistanceKm == nil {
		return
	}
	minutes, err := services.TravelTime(*job.DistanceKm, vehicle)
	if err != nil {
		return
	}
	job.EtaMinutes = &minutes
}

func (h GetCourierDashboardQueryHandler) liveOffer(
	ctx context.Context,
	courierID kernel.UUID,
	now time.Time,
) (*DeliveryJobResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT `+deliveryJobColumns+`
		FROM orders
		WHERE pending_courier_id = ? AND courier_id IS NULL AND offer_expires_at > ?
	`, courierID.Bytes(), now).Row()

	job, err := scanDeliveryJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (h GetCourierDashboardQueryHandler) openPool(ctx context.Context, now time.Time) ([]DeliveryJobResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+deliveryJobColumns+`
		FROM orders
		WHERE is_pickup = FALSE
		  AND courier_id IS NULL
		  AND status IN (?, ?)
		  AND (pending_courier_id IS NULL OR offer_expires_at <= ?)
		ORDER BY created_at ASC
	`, int(order.Preparing), int(order.Ready), now).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeliveryJobs(rows)
}

func (h GetCourierDashboardQueryHandler) assignments(ctx context.Context, courierID kernel.UUID) ([]DeliveryJobResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+deliveryJobColumns+`
		FROM orders
		WHERE courier_id = ? AND status NOT IN (?, ?)
		ORDER BY created_at ASC
	`, courierID.Bytes(), int(order.Delivered), int(order.Cancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeliveryJobs(rows)
}

func scanDeliveryJobs(rows *sql.Rows) ([]DeliveryJobResponse, error) {
	jobs := make([]DeliveryJobResponse, 0)

	for rows.Next() {
		job, err := scanDeliveryJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func scanDeliveryJob(row rowScanner) (DeliveryJobResponse, error) {
	var job DeliveryJobResponse
	var id uuid.UUID
	var status int
	var earnings int64
	var distanceKm sql.NullFloat64
	var offerExpiresAt sql.NullTime
	var createdAt time.Time

	err := row.Scan(
		&id,
		&job.Code,
		&status,
		&earnings,
		&distanceKm,
		&offerExpiresAt,
		&createdAt,
	)
	if err != nil {
		return DeliveryJobResponse{}, err
	}

	job.OrderID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return DeliveryJobResponse{}, err
	}

	job.Status = order.Status(status).String()
	job.Earnings = kernel.Money(earnings)
	job.CreatedAt = createdAt
	if distanceKm.Valid {
		d := distanceKm.Float64
		job.DistanceKm = &d
	}
	if offerExpiresAt.Valid {
		t := offerExpiresAt.Time
		job.OfferExpiresAt = &t
	}

	return job, nil
}
