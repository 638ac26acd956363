package commands_test

import (
	"testing"
	"time"

	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateDriverLocationCommandHandler_Handle_FirstPing(t *testing.T) {
	ctx := t.Context()

	driverID := kernel.NewUUID()
	point, err := kernel.NewGeoPoint(41.0, 29.0)
	require.NoError(t, err)

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, point)
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, driverID).Return(nil, errs.ErrObjectNotFound).Once(),
		driverRepo.On("Upsert", ctx, mock.AnythingOfType("*driver.DriverLocation")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateDriverLocationCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))
	driverRepo.AssertExpectations(t)
}

func TestUpdateDriverLocationCommandHandler_Handle_LaterPingKeepsAvailability(t *testing.T) {
	ctx := t.Context()

	driverID := kernel.NewUUID()
	location := newTestDriverLocation(t, driverID)
	require.NoError(t, location.MarkUnavailable(time.Now()))

	moved, err := kernel.NewGeoPoint(41.1, 29.1)
	require.NoError(t, err)
	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, moved)
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, driverID).Return(location, nil).Once(),
		driverRepo.On("Upsert", ctx, location).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewUpdateDriverLocationCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	assert.Equal(t, moved, location.Point())
	assert.False(t, location.IsAvailable(), "a ping must not resurrect availability")
}
