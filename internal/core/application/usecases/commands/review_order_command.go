package commands

import (
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/guard"
)

var (
	ErrReviewOrderCommandIsNotConstructed = errors.New(
		"ReviewOrderCommand must be created via NewReviewOrderCommand constructor",
	)
	ErrRejectionReasonIsRequired = errors.New("a rejection must carry a reason")
)

// ReviewOrderCommand represents a pharmacist's verdict on a pending order:
// approve it for payment or reject it with a reason.
type ReviewOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	pharmacistID kernel.UUID
	approve      bool
	reason       string

	guard guard.ConstructorGuard
}

// NewReviewOrderCommand creates a review command. A rejecting review requires a
// non-empty reason; an approving review ignores it.
func NewReviewOrderCommand(
	orderID kernel.UUID,
	pharmacistID kernel.UUID,
	approve bool,
	reason string,
) (ReviewOrderCommand, error) {
	reviewCommand := ReviewOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		reviewCommand.setOrderID(orderID),
		reviewCommand.setPharmacistID(pharmacistID),
		reviewCommand.setVerdict(approve, reason),
	); err != nil {
		return ReviewOrderCommand{}, err
	}

	return reviewCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewOrderCommand) Validate() error {
	return c.guard.Validate(ErrReviewOrderCommandIsNotConstructed)
}

// OrderID returns the reviewed order's identifier.
func (c ReviewOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PharmacistID returns the reviewing pharmacist's identifier.
func (c ReviewOrderCommand) PharmacistID() kernel.UUID {
	return c.pharmacistID
}

// Approve reports whether the verdict is an approval.
func (c ReviewOrderCommand) Approve() bool {
	return c.approve
}

// Reason returns the rejection reason. Empty for approvals.
func (c ReviewOrderCommand) Reason() string {
	return c.reason
}

func (c *ReviewOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ReviewOrderCommand) setPharmacistID(pharmacistID kernel.UUID) error {
	if err := pharmacistID.Validate(); err != nil {
		return err
	}

	c.pharmacistID = pharmacistID
	return nil
}

func (c *ReviewOrderCommand) setVerdict(approve bool, reason string) error {
	if !approve && reason == "" {
		return ErrRejectionReasonIsRequired
	}

	c.approve = approve
	if !approve {
		c.reason = reason
	}
	return nil
}
