package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

func declineCommand(t *testing.T, orderID, courierID kernel.UUID) commands.DeclineOfferCommand {
	t.Helper()
	cmd, err := commands.NewDeclineOfferCommand(orderID, courierID)
	require.NoError(t, err)
	return cmd
}

func TestDeclineOfferCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	merchantID := kernel.NewUUID()
	decliner := kernel.NewUUID()
	aggregate := readyOrder(t, merchantID)
	now := time.Now().UTC()
	require.NoError(t, aggregate.OfferTo(decliner, now.Add(time.Minute), now))

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Publish", eventFor(ports.EventOfferResolved, ports.CourierRoom(decliner))).Once()

	dispatch := new(MockDispatchTrigger)
	dispatch.On("TriggerDispatch", aggregate.ID()).Once()

	handler := commands.NewDeclineOfferCommandHandler(factory, dispatch, notifier, testLogger())
	require.NoError(t, handler.Handle(ctx, declineCommand(t, aggregate.ID(), decliner)))

	assert.Nil(t, aggregate.PendingCourierID())
	assert.Contains(t, aggregate.DeclinedCouriers(), decliner)
	mock.AssertExpectationsForObjects(t, uow, orderRepo, notifier, dispatch)
}

func TestDeclineOfferCommandHandler_Handle_NotTheOfferHolder(t *testing.T) {
	ctx := t.Context()
	merchantID := kernel.NewUUID()
	holder := kernel.NewUUID()
	aggregate := readyOrder(t, merchantID)
	now := time.Now().UTC()
	require.NoError(t, aggregate.OfferTo(holder, now.Add(time.Minute), now))

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	dispatch := new(MockDispatchTrigger)

	handler := commands.NewDeclineOfferCommandHandler(factory, dispatch, new(MockNotifier), testLogger())
	err := handler.Handle(ctx, declineCommand(t, aggregate.ID(), kernel.NewUUID()))

	require.ErrorIs(t, err, errs.ErrConflict)
	require.NotNil(t, aggregate.PendingCourierID())
	assert.True(t, aggregate.PendingCourierID().IsEqual(holder))
	dispatch.AssertNotCalled(t, "TriggerDispatch", mock.Anything)
}
