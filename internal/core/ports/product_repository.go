package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for catalog products.
//
// Stock moves only through the conditional methods below, never through a
// read-modify-write on the aggregate: concurrent checkouts for the last unit
// must lose deterministically at the database.
type ProductRepository interface {
	// Add persists a new product.
	Add(ctx context.Context, product *product.Product) error

	// Get retrieves a product by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetAllByIDs retrieves the products with the given IDs. Missing IDs
	// yield errs.ErrObjectNotFound.
	GetAllByIDs(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error)

	// DecrementStock atomically reserves quantity units: the decrement
	// applies only while stock >= quantity. Zero rows affected means
	// insufficient stock and returns errs.ErrConflict; the caller is
	// expected to roll back the surrounding transaction.
	DecrementStock(ctx context.Context, id kernel.UUID, quantity int) error

	// RestoreStock returns quantity units to the shelf. Idempotence is the
	// caller's concern via the order's stock-restored flag.
	RestoreStock(ctx context.Context, id kernel.UUID, quantity int) error
}
