package commands

import (
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/guard"
)

var ErrMarkOrderReadyCommandIsNotConstructed = errors.New(
	"MarkOrderReadyCommand must be created via NewMarkOrderReadyCommand constructor",
)

// MarkOrderReadyCommand represents the pharmacy declaring a preparing order
// packed and ready for pickup.
type MarkOrderReadyCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	pharmacistID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkOrderReadyCommand creates a mark-ready command.
func NewMarkOrderReadyCommand(orderID, pharmacistID kernel.UUID) (MarkOrderReadyCommand, error) {
	readyCommand := MarkOrderReadyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		readyCommand.setOrderID(orderID),
		readyCommand.setPharmacistID(pharmacistID),
	); err != nil {
		return MarkOrderReadyCommand{}, err
	}

	return readyCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkOrderReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderReadyCommandIsNotConstructed)
}

// OrderID returns the ready order's identifier.
func (c MarkOrderReadyCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PharmacistID returns the declaring pharmacist's identifier.
func (c MarkOrderReadyCommand) PharmacistID() kernel.UUID {
	return c.pharmacistID
}

func (c *MarkOrderReadyCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkOrderReadyCommand) setPharmacistID(pharmacistID kernel.UUID) error {
	if err := pharmacistID.Validate(); err != nil {
		return err
	}

	c.pharmacistID = pharmacistID
	return nil
}
