// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, persistence, then post-commit notifications.
package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Handlers depend on the narrowest interface that covers the aggregates they
// touch, which keeps mocks small.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// FleetUoW manages transactions across order and courier aggregates.
	// Used by dispatch, acceptance, and position updates.
	FleetUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
	}

	// FleetUoWFactory creates new fleet unit of work instances.
	FleetUoWFactory interface {
		Create() FleetUoW
	}

	// CheckoutUoW manages transactions across order and product aggregates.
	// Used by order placement (stock reservation) and cancellation (restore).
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
	}

	// CheckoutUoWFactory creates new checkout unit of work instances.
	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}

	// UoW manages transactions across all three aggregates. Used by the
	// lifecycle transition handler, whose cancel branch touches everything.
	UoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		ProductRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// DispatchTrigger requests an asynchronous dispatch pass for an order.
// Implementations run the dispatch command in the background; a trigger never
// blocks or fails the operation that pulled it.
type DispatchTrigger interface {
	TriggerDispatch(orderID kernel.UUID)
}
