package commands

import (
	"context"
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/driver"
	"pharmacy/internal/pkg/errs"
)

// UpdateDriverLocationCommandHandler upserts a driver's location record.
// A first ping creates the record with the driver available; later pings move
// the position under a row lock without touching availability, so a driver on
// an active delivery keeps reporting without becoming assignable.
type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewUpdateDriverLocationCommandHandler creates a handler for location pings.
func NewUpdateDriverLocationCommandHandler(uowFactory DriverUoWFactory) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the ping command.
func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.NewPersistenceError("begin", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	now := time.Now()

	location, err := driverRepo.GetForUpdate(ctx, cmd.DriverID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		location, err = driver.NewDriverLocation(cmd.DriverID(), cmd.Point(), now)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err = location.Ping(cmd.Point(), now); err != nil {
			return err
		}
	}

	if err = driverRepo.Upsert(ctx, location); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.NewPersistenceError("commit", err)
	}

	return nil
}
