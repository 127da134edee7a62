// Package productrepo persists catalog products with GORM.
package productrepo

import (
	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductDTO represents the database structure for persisting products.
type ProductDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID uuid.UUID `gorm:"type:uuid;index"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Price      int64
	Stock      int
	Active     bool `gorm:"index"`
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// fromDomain converts a product aggregate to its database representation.
func fromDomain(aggregate *product.Product) ProductDTO {
	return ProductDTO{
		ID:         aggregate.ID().Bytes(),
		MerchantID: aggregate.MerchantID().Bytes(),
		Name:       aggregate.Name(),
		Price:      int64(aggregate.Price()),
		Stock:      aggregate.Stock(),
		Active:     aggregate.Active(),
	}
}

// toDomain reconstructs a product aggregate from its database representation.
func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(id, merchantID, dto.Name, kernel.Money(dto.Price), dto.Stock, dto.Active)
}
