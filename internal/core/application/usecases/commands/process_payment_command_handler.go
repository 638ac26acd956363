package commands

import (
	"context"
	"time"

	"pharmacy/internal/core/application/notifications"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// ProcessPaymentCommandHandler moves a validated order to "paid". The payment is
// authorized with the gateway inside the transaction but before the transition,
// so a declined authorization leaves the order untouched. After commit the
// payment-processed notification is fanned out.
type ProcessPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	dispatcher notifications.Dispatcher
}

// NewProcessPaymentCommandHandler creates a handler for payment processing.
func NewProcessPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	dispatcher notifications.Dispatcher,
) ProcessPaymentCommandHandler {
	return ProcessPaymentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		dispatcher: dispatcher,
	}
}

// Handle processes the payment command. Only the ordering patient may pay, and
// only a "validated" order can move to "paid"; the status graph enforces the
// latter through MarkPaid.
func (h ProcessPaymentCommandHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) error {
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

	paid, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !paid.IsOwnedBy(cmd.PatientID()) {
		return errs.NewConflictError("order", "order does not belong to this patient")
	}

	if err = h.gateway.Authorize(ctx, paid.ID(), paid.Total(), cmd.Method()); err != nil {
		return err
	}

	if err = paid.MarkPaid(cmd.Method(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, paid); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.NewPersistenceError("commit", err)
	}

	h.dispatcher.Dispatch(ctx, notifications.NewOrderEvent(notifications.EventPaymentProcessed, paid))

	return nil
}
