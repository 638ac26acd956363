package commands_test

import (
	"testing"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReviewOrderCommandHandler_Handle_Approve(t *testing.T) {
	ctx := t.Context()

	pendingOrder := newTestOrder(t, order.Pending, nil)
	pharmacistID := kernel.NewUUID()
	cmd, err := commands.NewReviewOrderCommand(pendingOrder.ID(), pharmacistID, true, "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	directory := new(MockRecipientDirectory)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, pendingOrder.ID()).Return(pendingOrder, nil).Once(),
		directory.On("OwnsPharmacy", ctx, pharmacistID, pendingOrder.PharmacyID()).Return(true, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReviewOrderCommandHandler(factory, directory)
	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.Validated, pendingOrder.Status())
}

func TestReviewOrderCommandHandler_Handle_Reject(t *testing.T) {
	ctx := t.Context()

	pendingOrder := newTestOrder(t, order.Pending, nil)
	pharmacistID := kernel.NewUUID()
	cmd, err := commands.NewReviewOrderCommand(pendingOrder.ID(), pharmacistID, false, "prescription expired")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	directory := new(MockRecipientDirectory)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetForUpdate", ctx, pendingOrder.ID()).Return(pendingOrder, nil).Once(),
		directory.On("OwnsPharmacy", ctx, pharmacistID, pendingOrder.PharmacyID()).Return(true, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReviewOrderCommandHandler(factory, directory)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, order.Rejected, pendingOrder.Status())
	updates := pendingOrder.PendingTrackingUpdates()
	require.NotEmpty(t, updates)
	assert.Contains(t, updates[len(updates)-1].Message(), "prescription expired")
}
