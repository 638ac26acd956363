package commands

import (
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/guard"
)

var ErrAcceptDeliveryCommandIsNotConstructed = errors.New(
	"AcceptDeliveryCommand must be created via NewAcceptDeliveryCommand constructor",
)

// AcceptDeliveryCommand represents a driver claiming an unassigned order.
// Acceptance is first-come-first-served: when several drivers race for the same
// order, the first transaction to commit wins and the rest get a conflict.
//
// Example:
//
//	cmd, err := NewAcceptDeliveryCommand(orderID, driverID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewAcceptDeliveryCommandHandler(uowFactory, dispatcher)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // another driver got there first, or this driver already has a delivery
//	}
type AcceptDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptDeliveryCommand creates a delivery acceptance command.
func NewAcceptDeliveryCommand(orderID, driverID kernel.UUID) (AcceptDeliveryCommand, error) {
	acceptCommand := AcceptDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		acceptCommand.setOrderID(orderID),
		acceptCommand.setDriverID(driverID),
	); err != nil {
		return AcceptDeliveryCommand{}, err
	}

	return acceptCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAcceptDeliveryCommandIsNotConstructed)
}

// OrderID returns the claimed order's identifier.
func (c AcceptDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the claiming driver's identifier.
func (c AcceptDeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *AcceptDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AcceptDeliveryCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
