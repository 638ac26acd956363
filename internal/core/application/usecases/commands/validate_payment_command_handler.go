package commands

import (
	"context"
	"time"

	"pharmacy/internal/core/application/notifications"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// ValidatePaymentCommandHandler moves a paid order to "preparing". After commit
// the payment-validated fanout notifies the patient and broadcasts the upcoming
// delivery to every available driver.
type ValidatePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	directory  ports.RecipientDirectory
	dispatcher notifications.Dispatcher
}

// NewValidatePaymentCommandHandler creates a handler for payment validation.
func NewValidatePaymentCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.RecipientDirectory,
	dispatcher notifications.Dispatcher,
) ValidatePaymentCommandHandler {
	return ValidatePaymentCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		dispatcher: dispatcher,
	}
}

// Handle processes the validation command. Only the owner of the order's
// pharmacy may confirm payment.
func (h ValidatePaymentCommandHandler) Handle(ctx context.Context, cmd ValidatePaymentCommand) error {
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

	confirmed, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	owns, err := h.directory.OwnsPharmacy(ctx, cmd.PharmacistID(), confirmed.PharmacyID())
	if err != nil {
		return err
	}
	if !owns {
		return errs.NewConflictError("order", "pharmacy is not owned by this user")
	}

	if err = confirmed.StartPreparing(time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, confirmed); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.NewPersistenceError("commit", err)
	}

	h.dispatcher.Dispatch(ctx, notifications.NewOrderEvent(notifications.EventPaymentValidated, confirmed))

	return nil
}
