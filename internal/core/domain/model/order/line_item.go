package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created
// through the NewLineItem factory method.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one purchased product line inside an order. Name and unit price
// are snapshots taken at purchase time: later catalog changes never affect an
// existing order. Line items are created atomically with the order and are
// immutable afterward; cancellation restores stock but does not delete them.
type LineItem struct {
	productID kernel.UUID
	name      string
	unitPrice kernel.Money
	quantity  int
	guard     guard.ConstructorGuard
}

// NewLineItem creates a validated line item snapshot.
//
// Parameters:
//   - productID: the catalog product this line refers to
//   - name: product name at purchase time (must be non-empty)
//   - unitPrice: price per unit at purchase time (must not be negative)
//   - quantity: units ordered (must be positive)
func NewLineItem(productID kernel.UUID, name string, unitPrice kernel.Money, quantity int) (LineItem, error) {
	item := LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the line item was created via NewLineItem.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the referenced product's identifier.
func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the product name snapshot.
func (i LineItem) Name() string {
	return i.name
}

// UnitPrice returns the unit price snapshot.
func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the number of units ordered.
func (i LineItem) Quantity() int {
	return i.quantity
}

// Subtotal returns unit price times quantity.
func (i LineItem) Subtotal() kernel.Money {
	return i.unitPrice * kernel.Money(i.quantity)
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("line item name")
	}
	i.name = name
	return nil
}

func (i *LineItem) setUnitPrice(price kernel.Money) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%d is negative", price))
	}
	i.unitPrice = price
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
