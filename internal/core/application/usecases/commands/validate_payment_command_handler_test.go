package commands_test

import (
	"testing"

	"pharmacy/internal/core/application/notifications"
	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidatePaymentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	paidOrder := newTestOrder(t, order.Paid, nil)
	pharmacistID := kernel.NewUUID()
	cmd, err := commands.NewValidatePaymentCommand(paidOrder.ID(), pharmacistID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	directory := new(MockRecipientDirectory)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, paidOrder.ID()).Return(paidOrder, nil).Once(),
		directory.On("OwnsPharmacy", ctx, pharmacistID, paidOrder.PharmacyID()).Return(true, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e notifications.Event) bool {
		return e.Kind == notifications.EventPaymentValidated
	})).Once()

	handler := commands.NewValidatePaymentCommandHandler(factory, directory, dispatcher)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Preparing, paidOrder.Status())
	dispatcher.AssertExpectations(t)
}

func TestValidatePaymentCommandHandler_Handle_NotTheOwner(t *testing.T) {
	ctx := t.Context()

	paidOrder := newTestOrder(t, order.Paid, nil)
	pharmacistID := kernel.NewUUID()
	cmd, err := commands.NewValidatePaymentCommand(paidOrder.ID(), pharmacistID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	directory := new(MockRecipientDirectory)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, paidOrder.ID()).Return(paidOrder, nil).Once(),
		directory.On("OwnsPharmacy", ctx, pharmacistID, paidOrder.PharmacyID()).Return(false, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	dispatcher := new(MockDispatcher)

	handler := commands.NewValidatePaymentCommandHandler(factory, directory, dispatcher)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.Paid, paidOrder.Status())
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}
