package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/ports"
)

// ProductUoW manages transactions for product-only operations.
type ProductUoW interface {
	TxManager
	ProductRepository() ports.ProductRepository
}

// ProductUoWFactory creates new product unit of work instances.
type ProductUoWFactory interface {
	Create() ProductUoW
}

// CreateProductCommandHandler adds a catalog entry for a merchant.
type CreateProductCommandHandler struct {
	uowFactory ProductUoWFactory
}

// NewCreateProductCommandHandler creates a handler for catalog additions.
func NewCreateProductCommandHandler(uowFactory ProductUoWFactory) CreateProductCommandHandler {
	return CreateProductCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the catalog command.
func (h *CreateProductCommandHandler) Handle(ctx context.Context, cmd CreateProductCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	entry, err := product.NewProduct(cmd.ProductID(), cmd.MerchantID(), cmd.Name(), cmd.Price(), cmd.Stock())
	if err != nil {
		return err
	}

	if err = uow.ProductRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
