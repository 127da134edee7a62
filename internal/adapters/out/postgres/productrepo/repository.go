package productrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/pkg/errs"
)

// GormProductRepository implements ports.ProductRepository using GORM.
//
// Stock arithmetic happens in SQL. DecrementStock's WHERE clause guards
// against oversell: two checkouts racing for the last unit both pass the
// in-memory check, but only one UPDATE matches the row.
type GormProductRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB, tracker aggregateTracker) *GormProductRepository {
	return &GormProductRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new product to the database.
func (r *GormProductRepository) Add(ctx context.Context, aggregate *product.Product) error {
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

// Get retrieves a product by ID.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByIDs retrieves the products with the given IDs. Every requested ID
// must resolve; a missing product fails the whole read.
func (r *GormProductRepository) GetAllByIDs(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	if len(ids) == 0 {
		return []*product.Product{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*product.Product, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		byID[dto.ID] = aggregate
	}

	products := make([]*product.Product, 0, len(ids))
	for i, id := range ids {
		aggregate, ok := byID[raw[i]]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		products = append(products, aggregate)
	}

	return products, nil
}

// DecrementStock reserves quantity units while stock covers them.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id kernel.UUID, quantity int) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND stock >= ?", id.Bytes(), quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("stock")
	}

	return nil
}

// RestoreStock returns quantity units to the shelf.
func (r *GormProductRepository) RestoreStock(ctx context.Context, id kernel.UUID, quantity int) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity")
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ?", id.Bytes()).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product", id.String())
	}

	return nil
}
