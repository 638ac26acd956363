package commands

import (
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/guard"
)

var ErrValidatePaymentCommandIsNotConstructed = errors.New(
	"ValidatePaymentCommand must be created via NewValidatePaymentCommand constructor",
)

// ValidatePaymentCommand represents a pharmacist confirming that a paid order's
// payment arrived, which starts preparation and broadcasts the upcoming delivery
// to available drivers.
type ValidatePaymentCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	pharmacistID kernel.UUID

	guard guard.ConstructorGuard
}

// NewValidatePaymentCommand creates a payment validation command.
func NewValidatePaymentCommand(orderID, pharmacistID kernel.UUID) (ValidatePaymentCommand, error) {
	validateCommand := ValidatePaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		validateCommand.setOrderID(orderID),
		validateCommand.setPharmacistID(pharmacistID),
	); err != nil {
		return ValidatePaymentCommand{}, err
	}

	return validateCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ValidatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrValidatePaymentCommandIsNotConstructed)
}

// OrderID returns the confirmed order's identifier.
func (c ValidatePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PharmacistID returns the confirming pharmacist's identifier.
func (c ValidatePaymentCommand) PharmacistID() kernel.UUID {
	return c.pharmacistID
}

func (c *ValidatePaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ValidatePaymentCommand) setPharmacistID(pharmacistID kernel.UUID) error {
	if err := pharmacistID.Validate(); err != nil {
		return err
	}

	c.pharmacistID = pharmacistID
	return nil
}
