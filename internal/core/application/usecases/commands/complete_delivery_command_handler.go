package commands

import (
	"context"
	"errors"
	"time"

	"pharmacy/internal/core/application/notifications"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// CompleteDeliveryResult is the outcome of a successful completion.
type CompleteDeliveryResult struct {
	OrderID     string
	DeliveredAt time.Time
}

// CompleteDeliveryCommandHandler moves an in_transit order to "delivered".
// Only the assigned driver may complete, and completion is not idempotent: a
// repeat attempt on a delivered order gets a conflict from the status graph.
// The driver becomes available again in the same transaction, and the
// delivery-completed fanout runs after commit.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	dispatcher notifications.Dispatcher
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	dispatcher notifications.Dispatcher,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes the completion command. On success it returns the order's id
// and the recorded delivery time.
func (h CompleteDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd CompleteDeliveryCommand,
) (CompleteDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return CompleteDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompleteDeliveryResult{}, errs.NewPersistenceError("begin", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	driverRepo := uow.DriverRepository()

	delivered, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	now := time.Now()
	if err = delivered.Complete(cmd.DriverID(), cmd.Notes(), now); err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err = orderRepo.Update(ctx, delivered); err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err = releaseDriver(ctx, driverRepo, cmd.DriverID(), now); err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompleteDeliveryResult{}, errs.NewPersistenceError("commit", err)
	}

	h.dispatcher.Dispatch(ctx, notifications.NewOrderEvent(notifications.EventDeliveryCompleted, delivered))

	return CompleteDeliveryResult{
		OrderID:     delivered.ID().String(),
		DeliveredAt: *delivered.DeliveredAt(),
	}, nil
}

// releaseDriver flips the driver back to available. A missing location row is
// tolerated, mirroring holdDriver.
func releaseDriver(
	ctx context.Context,
	driverRepo ports.DriverRepository,
	driverID kernel.UUID,
	now time.Time,
) error {
	location, err := driverRepo.GetForUpdate(ctx, driverID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = location.MarkAvailable(now); err != nil {
		return err
	}

	return driverRepo.Upsert(ctx, location)
}
