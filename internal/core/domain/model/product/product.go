package product

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrProductIsNotConstructed is returned when using an improperly initialized Product.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct constructor")

// Product is a merchant catalog entry. Orders snapshot its name and price
// into line items at checkout, so later edits never alter existing orders.
//
// Stock arithmetic is intentionally NOT modeled here: concurrent checkouts
// make an in-memory decrement unsafe, so reservation and restoration run as
// conditional updates in the storage layer. The aggregate only carries the
// stock value for reads.
type Product struct {
	id         kernel.UUID
	merchantID kernel.UUID
	name       string
	price      kernel.Money
	stock      int
	active     bool

	guard guard.ConstructorGuard
}

// NewProduct creates an active catalog entry.
func NewProduct(id, merchantID kernel.UUID, name string, price kernel.Money, stock int) (*Product, error) {
	p := &Product{
		active: true,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setMerchantID(merchantID),
		p.setName(name),
		p.setPrice(price),
		p.setStock(stock),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProduct reconstructs a Product from persistent storage.
func RestoreProduct(id, merchantID kernel.UUID, name string, price kernel.Money, stock int, active bool) (*Product, error) {
	p, err := NewProduct(id, merchantID, name, price, stock)
	if err != nil {
		return nil, err
	}
	p.active = active
	return p, nil
}

// Validate ensures the Product instance was properly constructed.
func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// MerchantID returns the owning merchant's identifier.
func (p *Product) MerchantID() kernel.UUID {
	return p.merchantID
}

// Name returns the product name.
func (p *Product) Name() string {
	return p.name
}

// Price returns the current unit price.
func (p *Product) Price() kernel.Money {
	return p.price
}

// Stock returns the stock level as of the last read.
func (p *Product) Stock() int {
	return p.stock
}

// Active reports whether the product is currently orderable.
func (p *Product) Active() bool {
	return p.active
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	p.merchantID = merchantID
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setPrice(price kernel.Money) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidError("price")
	}
	p.price = price
	return nil
}

func (p *Product) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidError("stock")
	}
	p.stock = stock
	return nil
}
