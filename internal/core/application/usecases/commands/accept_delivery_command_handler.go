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

// AcceptDeliveryResult is the outcome of a successful acceptance.
type AcceptDeliveryResult struct {
	OrderID           string
	EstimatedDelivery time.Time
}

// AcceptDeliveryCommandHandler assigns a driver to an order. Both exclusivity
// invariants are enforced inside one transaction:
//
//   - the order row is locked and re-checked, so two drivers racing for the same
//     order serialize and the second one finds it already assigned;
//   - the driver's active delivery is looked up first, and a partial unique
//     index on in_transit driver assignments rejects a concurrent second
//     acceptance by the same driver that the lookup cannot see. Both paths
//     surface as the same conflict error.
//
// The driver's availability flips to false in the same transaction, and the
// delivery-accepted fanout runs after commit.
type AcceptDeliveryCommandHandler struct {
	uowFactory UoWFactory
	dispatcher notifications.Dispatcher
}

// NewAcceptDeliveryCommandHandler creates a handler for delivery acceptance.
// Requires a UoWFactory because acceptance spans the order and driver aggregates.
func NewAcceptDeliveryCommandHandler(
	uowFactory UoWFactory,
	dispatcher notifications.Dispatcher,
) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
	}
}

// Handle processes the acceptance command. On success it returns the assigned
// order's id and estimated delivery time.
func (h AcceptDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd AcceptDeliveryCommand,
) (AcceptDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return AcceptDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AcceptDeliveryResult{}, errs.NewPersistenceError("begin", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	driverRepo := uow.DriverRepository()

	accepted, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return AcceptDeliveryResult{}, err
	}

	_, err = orderRepo.GetInTransitByDriver(ctx, cmd.DriverID())
	if err == nil {
		return AcceptDeliveryResult{}, errs.NewConflictError("driver", "driver already has an active delivery")
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return AcceptDeliveryResult{}, err
	}

	now := time.Now()
	if err = accepted.AssignDriver(cmd.DriverID(), now); err != nil {
		return AcceptDeliveryResult{}, err
	}

	if err = orderRepo.Update(ctx, accepted); err != nil {
		return AcceptDeliveryResult{}, err
	}

	if err = holdDriver(ctx, driverRepo, cmd.DriverID(), now); err != nil {
		return AcceptDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AcceptDeliveryResult{}, errs.NewPersistenceError("commit", err)
	}

	h.dispatcher.Dispatch(ctx, notifications.NewOrderEvent(notifications.EventDeliveryAccepted, accepted))

	return AcceptDeliveryResult{
		OrderID:           accepted.ID().String(),
		EstimatedDelivery: *accepted.EstimatedDelivery(),
	}, nil
}

// holdDriver flips the driver's availability off for the duration of the
// delivery. A driver who never pinged has no location row; acceptance still
// succeeds, the driver just never appeared in the available set to begin with.
func holdDriver(
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

	if err = location.MarkUnavailable(now); err != nil {
		return err
	}

	return driverRepo.Upsert(ctx, location)
}
