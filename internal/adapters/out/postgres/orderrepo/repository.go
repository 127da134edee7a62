package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
//
// Dispatch-sensitive writes (OfferTo, AcceptOffer, UpdateStatus) are
// compare-and-swap UPDATEs: the WHERE clause re-states the aggregate's
// precondition and zero affected rows means a concurrent writer won, reported
// as errs.ErrConflict. The aggregate checks the same rules in memory, but
// only the row is authoritative.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order. Line items are immutable and left alone;
// recorded declines are replaced to mirror the aggregate.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Omit(clause.Associations).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if err := r.syncDeclines(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateStatus persists a lifecycle move only if the stored status still
// equals expected. A zero-row update means another actor moved the order
// first and the caller must re-read.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(expected)).
		Updates(map[string]any{
			"status":             dto.Status,
			"payment_status":     dto.PaymentStatus,
			"courier_id":         dto.CourierID,
			"pending_courier_id": dto.PendingCourierID,
			"offer_expires_at":   dto.OfferExpiresAt,
			"stock_restored":     dto.StockRestored,
			"updated_at":         dto.UpdatedAt,
			"delivered_at":       dto.DeliveredAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("order status")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.loaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllForCourier retrieves the courier's in-flight assignments.
func (r *GormOrderRepository) GetAllForCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.loaded(ctx).
		Where("courier_id = ? AND status NOT IN ?",
			courierID.Bytes(), []int{int(order.Delivered), int(order.Cancelled)}).
		Order("created_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// OfferTo places the aggregate's pending offer conditionally: the row must
// still be unassigned and free of a live offer.
func (r *GormOrderRepository) OfferTo(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND courier_id IS NULL AND status IN ?",
			dto.ID, []int{int(order.Preparing), int(order.Ready)}).
		Where("pending_courier_id IS NULL OR offer_expires_at <= ?", now).
		Updates(map[string]any{
			"pending_courier_id": dto.PendingCourierID,
			"offer_expires_at":   dto.OfferExpiresAt,
			"updated_at":         dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("dispatch offer")
	}

	if err := r.syncDeclines(ctx, dto); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// AcceptOffer assigns the aggregate's courier conditionally. The courier
// must hold the live offer, or the order must sit in the open pool; in
// either case the row must still be unassigned. Zero rows means the courier
// was too late.
func (r *GormOrderRepository) AcceptOffer(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if dto.CourierID == nil {
		return errs.NewValueIsRequiredError("assigned courier")
	}
	now := time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND courier_id IS NULL", dto.ID).
		Where(
			r.db.Where("pending_courier_id = ? AND offer_expires_at > ?", *dto.CourierID, now).
				Or("status IN ? AND (pending_courier_id IS NULL OR offer_expires_at <= ?)",
					[]int{int(order.Preparing), int(order.Ready)}, now),
		).
		Updates(map[string]any{
			"courier_id":         dto.CourierID,
			"pending_courier_id": nil,
			"offer_expires_at":   nil,
			"status":             dto.Status,
			"updated_at":         dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("offer acceptance")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetExpiredOffers retrieves orders whose offer deadline passed unaccepted.
func (r *GormOrderRepository) GetExpiredOffers(ctx context.Context, now time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.loaded(ctx).
		Where("pending_courier_id IS NOT NULL AND courier_id IS NULL AND offer_expires_at <= ?", now).
		Order("offer_expires_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// loaded returns a query with the order's child rows preloaded.
func (r *GormOrderRepository) loaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items").Preload("Declines")
}

// syncDeclines replaces the order's recorded declines with the aggregate's.
func (r *GormOrderRepository) syncDeclines(ctx context.Context, dto OrderDTO) error {
	err := r.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Delete(&OrderDeclineDTO{}).Error
	if err != nil {
		return err
	}

	if len(dto.Declines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dto.Declines).Error
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, aggregate)
	}
	return orders, nil
}
