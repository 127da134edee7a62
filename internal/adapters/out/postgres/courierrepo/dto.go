// Package courierrepo persists courier aggregates with GORM.
package courierrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// The position is a nullable coordinate pair: a courier who never reported a
// position has both columns NULL.
type CourierDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Vehicle      int       `gorm:"type:int;not null"`
	Online       bool      `gorm:"index"`
	Availability int       `gorm:"index"`

	Lat            *float64
	Lng            *float64
	LastPositionAt *time.Time

	Deliveries      int
	LastDeliveredAt *time.Time
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	var lat, lng *float64
	if p := aggregate.Position(); p != nil {
		latVal := p.Lat()
		lngVal := p.Lng()
		lat = &latVal
		lng = &lngVal
	}

	return CourierDTO{
		ID:              aggregate.ID().Bytes(),
		Name:            aggregate.Name(),
		Vehicle:         int(aggregate.Vehicle()),
		Online:          aggregate.Online(),
		Availability:    int(aggregate.Availability()),
		Lat:             lat,
		Lng:             lng,
		LastPositionAt:  aggregate.LastPositionAt(),
		Deliveries:      aggregate.Deliveries(),
		LastDeliveredAt: aggregate.LastDeliveredAt(),
	}
}

// toDomain reconstructs a courier aggregate from its database representation.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var position *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		p, posErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if posErr != nil {
			return nil, posErr
		}
		position = &p
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		courier.Vehicle(dto.Vehicle),
		dto.Online,
		courier.Availability(dto.Availability),
		position,
		dto.LastPositionAt,
		dto.Deliveries,
		dto.LastDeliveredAt,
	)
}
