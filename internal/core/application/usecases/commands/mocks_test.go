package commands_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllForCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) OfferTo(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) AcceptOffer(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) GetExpiredOffers(ctx context.Context, now time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllDispatchable(ctx context.Context, now time.Time) ([]*courier.Courier, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetAllByIDs(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

// MockUoW satisfies every unit-of-work interface in this package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockFleetUoWFactory struct{ mock.Mock }

func (m *MockFleetUoWFactory) Create() commands.FleetUoW {
	args := m.Called()
	return args.Get(0).(commands.FleetUoW)
}

type MockCheckoutUoWFactory struct{ mock.Mock }

func (m *MockCheckoutUoWFactory) Create() commands.CheckoutUoW {
	args := m.Called()
	return args.Get(0).(commands.CheckoutUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockProductUoWFactory struct{ mock.Mock }

func (m *MockProductUoWFactory) Create() commands.ProductUoW {
	args := m.Called()
	return args.Get(0).(commands.ProductUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Publish(event ports.Event) {
	m.Called(event)
}

// eventNamed matches any published event with the given name.
func eventNamed(name string) any {
	return mock.MatchedBy(func(e ports.Event) bool { return e.Name == name })
}

// eventFor matches a published event with the given name and room.
func eventFor(name string, room ports.Room) any {
	return mock.MatchedBy(func(e ports.Event) bool { return e.Name == name && e.Room == room })
}

type MockPointsClient struct{ mock.Mock }

func (m *MockPointsClient) Award(ctx context.Context, customerID, orderID kernel.UUID, amount kernel.Money) error {
	args := m.Called(ctx, customerID, orderID, amount)
	return args.Error(0)
}

func (m *MockPointsClient) Redeem(ctx context.Context, customerID, orderID kernel.UUID, amount kernel.Money) error {
	args := m.Called(ctx, customerID, orderID, amount)
	return args.Error(0)
}

type MockDispatchTrigger struct{ mock.Mock }

func (m *MockDispatchTrigger) TriggerDispatch(orderID kernel.UUID) {
	m.Called(orderID)
}
