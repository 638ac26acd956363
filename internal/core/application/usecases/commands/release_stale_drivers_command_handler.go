package commands

import (
	"context"
	"time"

	"pharmacy/internal/pkg/errs"
)

// ReleaseStaleDriversCommandHandler marks stale available drivers unavailable in
// one transaction. Run periodically by the availability sweep job.
type ReleaseStaleDriversCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewReleaseStaleDriversCommandHandler creates a handler for the availability sweep.
func NewReleaseStaleDriversCommandHandler(uowFactory DriverUoWFactory) ReleaseStaleDriversCommandHandler {
	return ReleaseStaleDriversCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the sweep command and returns the number of drivers swept.
func (h ReleaseStaleDriversCommandHandler) Handle(ctx context.Context, cmd ReleaseStaleDriversCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, errs.NewPersistenceError("begin", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()

	stale, err := driverRepo.GetStaleAvailable(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	now := time.Now()
	for _, location := range stale {
		if err = location.MarkUnavailable(now); err != nil {
			return 0, err
		}
		if err = driverRepo.Upsert(ctx, location); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, errs.NewPersistenceError("commit", err)
	}

	return len(stale), nil
}
