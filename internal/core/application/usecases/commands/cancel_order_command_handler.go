package commands

import (
	"context"
	"time"

	"pharmacy/internal/pkg/errs"
)

// CancelOrderCommandHandler moves an order to "cancelled" on the patient's
// request. The row lock serializes cancellation against a concurrent driver
// acceptance: whichever commits first wins, and the loser gets a conflict.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command. Only the ordering patient may cancel.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	orderRepo := uow.OrderRepository()

	cancelled, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !cancelled.IsOwnedBy(cmd.PatientID()) {
		return errs.NewConflictError("order", "order does not belong to this patient")
	}

	if err = cancelled.Cancel(time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, cancelled); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.NewPersistenceError("commit", err)
	}

	return nil
}
