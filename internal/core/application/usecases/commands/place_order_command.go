package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// OrderItem is a requested product and quantity in a checkout cart.
// Prices are never taken from the client; the handler snapshots them from
// the catalog.
type OrderItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// PlaceOrderCommand represents a checkout request: the cart, the route, and
// the points the customer wants to burn as a discount.
//
// The route points arrive already resolved (store coordinates from the
// merchant profile, drop-off from the chosen address); this package never
// fetches profiles.
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	customerID        kernel.UUID
	merchantID        kernel.UUID
	deliveryAddressID *kernel.UUID
	isPickup          bool
	pickupPoint       kernel.GeoPoint
	dropoffPoint      *kernel.GeoPoint
	items             []OrderItem
	pointsToRedeem    kernel.Money

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a validated checkout command.
func NewPlaceOrderCommand(
	orderID kernel.UUID,
	customerID kernel.UUID,
	merchantID kernel.UUID,
	deliveryAddressID *kernel.UUID,
	isPickup bool,
	pickupPoint kernel.GeoPoint,
	dropoffPoint *kernel.GeoPoint,
	items []OrderItem,
	pointsToRedeem kernel.Money,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setMerchantID(merchantID),
		cmd.setDelivery(deliveryAddressID, dropoffPoint, isPickup),
		cmd.setPickupPoint(pickupPoint),
		cmd.setItems(items),
		cmd.setPointsToRedeem(pointsToRedeem),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// OrderID returns the client-generated identifier for the new order.
func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer.
func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// MerchantID returns the fulfilling merchant.
func (c PlaceOrderCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

// DeliveryAddressID returns the chosen address, nil for pickup.
func (c PlaceOrderCommand) DeliveryAddressID() *kernel.UUID {
	return c.deliveryAddressID
}

// IsPickup reports whether the customer collects the order themselves.
func (c PlaceOrderCommand) IsPickup() bool {
	return c.isPickup
}

// PickupPoint returns the store's coordinates.
func (c PlaceOrderCommand) PickupPoint() kernel.GeoPoint {
	return c.pickupPoint
}

// DropoffPoint returns the customer's coordinates, nil for pickup.
func (c PlaceOrderCommand) DropoffPoint() *kernel.GeoPoint {
	return c.dropoffPoint
}

// Items returns a copy of the requested cart.
func (c PlaceOrderCommand) Items() []OrderItem {
	out := make([]OrderItem, len(c.items))
	copy(out, c.items)
	return out
}

// PointsToRedeem returns the points burned as a discount.
func (c PlaceOrderCommand) PointsToRedeem() kernel.Money {
	return c.pointsToRedeem
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	c.merchantID = merchantID
	return nil
}

func (c *PlaceOrderCommand) setDelivery(addressID *kernel.UUID, dropoff *kernel.GeoPoint, isPickup bool) error {
	if !isPickup {
		if addressID == nil {
			return errs.NewValueIsRequiredError("delivery address")
		}
		if err := addressID.Validate(); err != nil {
			return err
		}
		if dropoff == nil {
			return errs.NewValueIsRequiredError("dropoff point")
		}
		if err := dropoff.Validate(); err != nil {
			return err
		}
	}

	c.isPickup = isPickup
	c.deliveryAddressID = addressID
	c.dropoffPoint = dropoff
	return nil
}

func (c *PlaceOrderCommand) setPickupPoint(pickupPoint kernel.GeoPoint) error {
	if err := pickupPoint.Validate(); err != nil {
		return err
	}
	c.pickupPoint = pickupPoint
	return nil
}

func (c *PlaceOrderCommand) setItems(items []OrderItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}

	c.items = make([]OrderItem, len(items))
	copy(c.items, items)
	return nil
}

func (c *PlaceOrderCommand) setPointsToRedeem(points kernel.Money) error {
	if points.IsNegative() {
		return errs.NewValueIsInvalidError("points to redeem")
	}
	c.pointsToRedeem = points
	return nil
}
