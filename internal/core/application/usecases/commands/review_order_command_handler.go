package commands

import (
	"context"
	"time"

	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// ReviewOrderCommandHandler moves a pending order to "validated" or "rejected"
// depending on the pharmacist's verdict. The order row is locked for the check
// and transition so concurrent reviews serialize; the loser gets a conflict.
type ReviewOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	directory  ports.RecipientDirectory
}

// NewReviewOrderCommandHandler creates a handler for order review operations.
func NewReviewOrderCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.RecipientDirectory,
) ReviewOrderCommandHandler {
	return ReviewOrderCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
	}
}

// Handle processes the review command. Only the owner of the order's pharmacy
// may review it; anyone else gets a conflict error.
func (h ReviewOrderCommandHandler) Handle(ctx context.Context, cmd ReviewOrderCommand) error {
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

	reviewed, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	owns, err := h.directory.OwnsPharmacy(ctx, cmd.PharmacistID(), reviewed.PharmacyID())
	if err != nil {
		return err
	}
	if !owns {
		return errs.NewConflictError("order", "pharmacy is not owned by this user")
	}

	now := time.Now()
	if cmd.Approve() {
		err = reviewed.Approve(now)
	} else {
		err = reviewed.Reject(cmd.Reason(), now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, reviewed); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.NewPersistenceError("commit", err)
	}

	return nil
}
