package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateProductCommandIsNotConstructed = errors.New(
	"CreateProductCommand must be created via NewCreateProductCommand constructor",
)

// CreateProductCommand represents a merchant adding a catalog entry.
type CreateProductCommand struct { //nolint:recvcheck //using for validation
	productID  kernel.UUID
	merchantID kernel.UUID
	name       string
	price      kernel.Money
	stock      int

	guard guard.ConstructorGuard
}

// NewCreateProductCommand creates a validated catalog command.
func NewCreateProductCommand(productID, merchantID kernel.UUID, name string, price kernel.Money, stock int) (CreateProductCommand, error) {
	cmd := CreateProductCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProductID(productID),
		cmd.setMerchantID(merchantID),
		cmd.setName(name),
		cmd.setPrice(price),
		cmd.setStock(stock),
	); err != nil {
		return CreateProductCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateProductCommand) Validate() error {
	return c.guard.Validate(ErrCreateProductCommandIsNotConstructed)
}

// ProductID returns the identifier for the new product.
func (c CreateProductCommand) ProductID() kernel.UUID {
	return c.productID
}

// MerchantID returns the owning merchant.
func (c CreateProductCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

// Name returns the product name.
func (c CreateProductCommand) Name() string {
	return c.name
}

// Price returns the unit price.
func (c CreateProductCommand) Price() kernel.Money {
	return c.price
}

// Stock returns the opening stock level.
func (c CreateProductCommand) Stock() int {
	return c.stock
}

func (c *CreateProductCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	c.productID = productID
	return nil
}

func (c *CreateProductCommand) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	c.merchantID = merchantID
	return nil
}

func (c *CreateProductCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateProductCommand) setPrice(price kernel.Money) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidError("price")
	}
	c.price = price
	return nil
}

func (c *CreateProductCommand) setStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidError("stock")
	}
	c.stock = stock
	return nil
}
