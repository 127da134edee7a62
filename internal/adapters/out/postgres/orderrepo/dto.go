// Package orderrepo persists order aggregates with GORM.
//
// The order row carries the dispatch-offer fields (pending courier, offer
// deadline) so that offer placement, acceptance, and status moves can be
// expressed as conditional UPDATEs on a single row. Line items and recorded
// declines live in child tables keyed by the order ID.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code              string     `gorm:"type:varchar(16);uniqueIndex"`
	CustomerID        uuid.UUID  `gorm:"type:uuid;index"`
	MerchantID        *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryAddressID *uuid.UUID `gorm:"type:uuid"`
	IsPickup          bool

	PickupLat  *float64
	PickupLng  *float64
	DropoffLat *float64
	DropoffLng *float64

	Status        int `gorm:"index"`
	PaymentStatus int

	CourierID        *uuid.UUID `gorm:"type:uuid;index"`
	PendingCourierID *uuid.UUID `gorm:"type:uuid;index"`
	OfferExpiresAt   *time.Time `gorm:"index"`

	Subtotal    int64
	DeliveryFee int64
	Discount    int64
	DistanceKm  *float64

	StockRestored bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeliveredAt *time.Time

	Items    []OrderItemDTO    `gorm:"foreignKey:OrderID;references:ID"`
	Declines []OrderDeclineDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is a priced cart line. Rows are written once at checkout and
// never updated afterwards.
type OrderItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	UnitPrice int64
	Quantity  int
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// OrderDeclineDTO records a courier excluded from an order's dispatch ranking.
type OrderDeclineDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName specifies the database table name for dispatch declines.
func (OrderDeclineDTO) TableName() string {
	return "order_declines"
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelUUIDPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	restored, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

func pointColumns(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat := p.Lat()
	lng := p.Lng()
	return &lat, &lng
}

func pointFromColumns(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	pickupLat, pickupLng := pointColumns(aggregate.PickupPoint())
	dropoffLat, dropoffLng := pointColumns(aggregate.DropoffPoint())

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			UnitPrice: int64(item.UnitPrice()),
			Quantity:  item.Quantity(),
		})
	}

	declines := make([]OrderDeclineDTO, 0, len(aggregate.DeclinedCouriers()))
	for _, courierID := range aggregate.DeclinedCouriers() {
		declines = append(declines, OrderDeclineDTO{
			OrderID:   aggregate.ID().Bytes(),
			CourierID: courierID.Bytes(),
		})
	}

	return OrderDTO{
		ID:                aggregate.ID().Bytes(),
		Code:              aggregate.Code().String(),
		CustomerID:        aggregate.CustomerID().Bytes(),
		MerchantID:        uuidPtr(aggregate.MerchantID()),
		DeliveryAddressID: uuidPtr(aggregate.DeliveryAddressID()),
		IsPickup:          aggregate.IsPickup(),
		PickupLat:         pickupLat,
		PickupLng:         pickupLng,
		DropoffLat:        dropoffLat,
		DropoffLng:        dropoffLng,
		Status:            int(aggregate.Status()),
		PaymentStatus:     int(aggregate.PaymentStatus()),
		CourierID:         uuidPtr(aggregate.CourierID()),
		PendingCourierID:  uuidPtr(aggregate.PendingCourierID()),
		OfferExpiresAt:    aggregate.OfferExpiresAt(),
		Subtotal:          int64(aggregate.Subtotal()),
		DeliveryFee:       int64(aggregate.DeliveryFee()),
		Discount:          int64(aggregate.Discount()),
		DistanceKm:        aggregate.DistanceKm(),
		StockRestored:     aggregate.StockRestored(),
		CreatedAt:         aggregate.CreatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
		DeliveredAt:       aggregate.DeliveredAt(),
		Items:             items,
		Declines:          declines,
	}
}

// toDomain reconstructs an order aggregate from its database representation.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	code, err := kernel.OrderCodeFromString(dto.Code)
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	merchantID, err := kernelUUIDPtr(dto.MerchantID)
	if err != nil {
		return nil, err
	}

	addressID, err := kernelUUIDPtr(dto.DeliveryAddressID)
	if err != nil {
		return nil, err
	}

	courierID, err := kernelUUIDPtr(dto.CourierID)
	if err != nil {
		return nil, err
	}

	pendingCourierID, err := kernelUUIDPtr(dto.PendingCourierID)
	if err != nil {
		return nil, err
	}

	pickupPoint, err := pointFromColumns(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}

	dropoffPoint, err := pointFromColumns(dto.DropoffLat, dto.DropoffLng)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewLineItem(productID, itemDTO.Name, kernel.Money(itemDTO.UnitPrice), itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	declined := make([]kernel.UUID, 0, len(dto.Declines))
	for _, declineDTO := range dto.Declines {
		declinedID, declineErr := kernel.UUIDFromBytes(declineDTO.CourierID[:])
		if declineErr != nil {
			return nil, declineErr
		}
		declined = append(declined, declinedID)
	}

	return order.RestoreOrder(
		id,
		code,
		customerID,
		merchantID,
		addressID,
		dto.IsPickup,
		pickupPoint,
		dropoffPoint,
		items,
		order.Status(dto.Status),
		order.PaymentStatus(dto.PaymentStatus),
		courierID,
		pendingCourierID,
		dto.OfferExpiresAt,
		declined,
		kernel.Money(dto.DeliveryFee),
		kernel.Money(dto.Discount),
		dto.DistanceKm,
		dto.StockRestored,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.DeliveredAt,
	)
}
