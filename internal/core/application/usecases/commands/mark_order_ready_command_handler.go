package commands

import (
	"context"
	"time"

	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// MarkOrderReadyCommandHandler moves a preparing order to "ready".
// A driver may already have accepted the delivery while the order was still
// preparing; in that case the aggregate refuses the transition and the order
// stays in transit.
type MarkOrderReadyCommandHandler struct {
	uowFactory OrderUoWFactory
	directory  ports.RecipientDirectory
}

// NewMarkOrderReadyCommandHandler creates a handler for the mark-ready operation.
func NewMarkOrderReadyCommandHandler(
	uowFactory OrderUoWFactory,
	directory ports.RecipientDirectory,
) MarkOrderReadyCommandHandler {
	return MarkOrderReadyCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
	}
}

// Handle processes the mark-ready command. Only the owner of the order's
// pharmacy may declare it ready.
func (h MarkOrderReadyCommandHandler) Handle(ctx context.Context, cmd MarkOrderReadyCommand) error {
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

	ready, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	owns, err := h.directory.OwnsPharmacy(ctx, cmd.PharmacistID(), ready.PharmacyID())
	if err != nil {
		return err
	}
	if !owns {
		return errs.NewConflictError("order", "pharmacy is not owned by this user")
	}

	if err = ready.MarkReady(time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, ready); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.NewPersistenceError("commit", err)
	}

	return nil
}
