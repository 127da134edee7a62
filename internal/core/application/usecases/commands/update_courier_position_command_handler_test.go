package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

func positionCommand(t *testing.T, courierID kernel.UUID, position kernel.GeoPoint) commands.UpdateCourierPositionCommand {
	t.Helper()
	cmd, err := commands.NewUpdateCourierPositionCommand(courierID, position)
	require.NoError(t, err)
	return cmd
}

func TestUpdateCourierPositionCommandHandler_Handle_BroadcastsToActiveOrders(t *testing.T) {
	ctx := t.Context()
	reporting := onlineCourier(t)
	position := geoPoint(t, -33.4489, -70.6693)
	active := assignedOrder(t, kernel.NewUUID(), reporting.ID())

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Get", ctx, reporting.ID()).Return(reporting, nil).Once(),
		courierRepo.On("Update", ctx, reporting).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllForCourier", ctx, reporting.ID()).
			Return([]*order.Order{active}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockFleetUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Publish", eventFor(ports.EventCourierPosition, ports.OrderRoom(active.ID()))).Once()
	notifier.On("Publish", eventFor(ports.EventCourierPosition, ports.CustomerRoom(active.CustomerID()))).Once()

	handler := commands.NewUpdateCourierPositionCommandHandler(factory, notifier, testLogger())
	require.NoError(t, handler.Handle(ctx, positionCommand(t, reporting.ID(), position)))

	require.NotNil(t, reporting.Position())
	assert.InDelta(t, position.Lat(), reporting.Position().Lat(), 1e-9)
	mock.AssertExpectationsForObjects(t, uow, orderRepo, courierRepo, notifier)
}

func TestUpdateCourierPositionCommandHandler_Handle_NoActiveOrdersStaysQuiet(t *testing.T) {
	ctx := t.Context()
	reporting := onlineCourier(t)
	position := geoPoint(t, -33.4489, -70.6693)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	courierRepo.On("Get", ctx, reporting.ID()).Return(reporting, nil).Once()
	courierRepo.On("Update", ctx, reporting).Return(nil).Once()
	orderRepo.On("GetAllForCourier", ctx, reporting.ID()).Return([]*order.Order{}, nil).Once()

	factory := new(MockFleetUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)

	handler := commands.NewUpdateCourierPositionCommandHandler(factory, notifier, testLogger())
	require.NoError(t, handler.Handle(ctx, positionCommand(t, reporting.ID(), position)))

	notifier.AssertNotCalled(t, "Publish", mock.Anything)
}
