package commands

import (
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

var ErrProcessPaymentCommandIsNotConstructed = errors.New(
	"ProcessPaymentCommand must be created via NewProcessPaymentCommand constructor",
)

// ProcessPaymentCommand represents the patient paying for a validated order.
// Carries the chosen payment method, for example "card" or "cash_on_delivery".
type ProcessPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	patientID kernel.UUID
	method    string

	guard guard.ConstructorGuard
}

// NewProcessPaymentCommand creates a payment command. The method must be non-empty.
func NewProcessPaymentCommand(
	orderID kernel.UUID,
	patientID kernel.UUID,
	method string,
) (ProcessPaymentCommand, error) {
	paymentCommand := ProcessPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		paymentCommand.setOrderID(orderID),
		paymentCommand.setPatientID(patientID),
		paymentCommand.setMethod(method),
	); err != nil {
		return ProcessPaymentCommand{}, err
	}

	return paymentCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessPaymentCommand) Validate() error {
	return c.guard.Validate(ErrProcessPaymentCommandIsNotConstructed)
}

// OrderID returns the paid order's identifier.
func (c ProcessPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// PatientID returns the paying patient's identifier.
func (c ProcessPaymentCommand) PatientID() kernel.UUID {
	return c.patientID
}

// Method returns the payment method.
func (c ProcessPaymentCommand) Method() string {
	return c.method
}

func (c *ProcessPaymentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ProcessPaymentCommand) setPatientID(patientID kernel.UUID) error {
	if err := patientID.Validate(); err != nil {
		return err
	}

	c.patientID = patientID
	return nil
}

func (c *ProcessPaymentCommand) setMethod(method string) error {
	if method == "" {
		return errs.NewValueIsRequiredError("method")
	}

	c.method = method
	return nil
}
