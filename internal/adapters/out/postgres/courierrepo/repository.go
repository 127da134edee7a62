package courierrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
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

// Update saves an existing courier to the database.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllDispatchable retrieves the couriers eligible for new offers: on
// shift, not carrying an order, and not already deliberating on a live
// offer for another order. An offer is exclusive, so a courier holding one
// must resolve it before entering another dispatch pool.
func (r *GormCourierRepository) GetAllDispatchable(ctx context.Context, now time.Time) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Where("online = TRUE AND availability = ?", int(courier.Available)).
		Where(`NOT EXISTS (
			SELECT 1 FROM orders
			WHERE orders.pending_courier_id = couriers.id
			  AND orders.courier_id IS NULL
			  AND orders.offer_expires_at > ?
		)`, now).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, domainErr := toDomain(dto)
		if domainErr != nil {
			return nil, domainErr
		}
		couriers = append(couriers, aggregate)
	}

	return couriers, nil
}
