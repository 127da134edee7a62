package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

func paymentCommand(t *testing.T, orderID kernel.UUID, status order.PaymentStatus, actorID kernel.UUID, role kernel.Role) commands.UpdatePaymentStatusCommand {
	t.Helper()
	actor, err := kernel.NewActor(actorID, role)
	require.NoError(t, err)
	cmd, err := commands.NewUpdatePaymentStatusCommand(orderID, status, actor)
	require.NoError(t, err)
	return cmd
}

func TestUpdatePaymentStatusCommandHandler_Handle_MerchantMarksPaid(t *testing.T) {
	ctx := t.Context()
	merchantID := kernel.NewUUID()
	aggregate := pendingOrder(t, merchantID)
	cmd := paymentCommand(t, aggregate.ID(), order.PaymentPaid, merchantID, kernel.RoleMerchant)

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

	handler := commands.NewUpdatePaymentStatusCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.PaymentPaid, aggregate.PaymentStatus())
	mock.AssertExpectationsForObjects(t, factory, uow, orderRepo)
}

func TestUpdatePaymentStatusCommandHandler_Handle_ForeignMerchantIsRejected(t *testing.T) {
	ctx := t.Context()
	aggregate := pendingOrder(t, kernel.NewUUID())
	cmd := paymentCommand(t, aggregate.ID(), order.PaymentPaid, kernel.NewUUID(), kernel.RoleMerchant)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdatePaymentStatusCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
	assert.Equal(t, order.PaymentPending, aggregate.PaymentStatus())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdatePaymentStatusCommandHandler_Handle_TerminalOrderAcceptsRefundOnly(t *testing.T) {
	ctx := t.Context()
	merchantID := kernel.NewUUID()
	aggregate := pendingOrder(t, merchantID)
	require.NoError(t, aggregate.SetPaymentStatus(order.PaymentPaid, time.Now().UTC()))
	admin, err := kernel.NewActor(kernel.NewUUID(), kernel.RoleAdmin)
	require.NoError(t, err)
	_, err = aggregate.TransitionTo(order.Cancelled, admin, time.Now().UTC())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	orderRepo.On("Update", ctx, aggregate).Return(nil)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow)

	handler := commands.NewUpdatePaymentStatusCommandHandler(factory)

	err = handler.Handle(ctx, paymentCommand(t, aggregate.ID(), order.PaymentPending, kernel.NewUUID(), kernel.RoleAdmin))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)

	require.NoError(t, handler.Handle(ctx, paymentCommand(t, aggregate.ID(), order.PaymentRefunded, kernel.NewUUID(), kernel.RoleAdmin)))
	assert.Equal(t, order.PaymentRefunded, aggregate.PaymentStatus())
}
