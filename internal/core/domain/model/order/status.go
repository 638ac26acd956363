package order

import (
	"fmt"

	"pharmacy/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state machine
// with a fixed transition graph; use TransitionTo to move between states.
type Status int

const (
	// Unknown represents an invalid or undefined status. This value (0) helps
	// catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the order is placed and awaits pharmacy review.
	Pending

	// Validated means the pharmacy approved the order; it now awaits payment.
	Validated

	// Rejected means the pharmacy declined the order. Terminal.
	Rejected

	// Paid means the patient's payment was authorized.
	Paid

	// Preparing means the pharmacist confirmed the payment and the pharmacy is
	// assembling the order. Orders become visible to drivers from this point.
	Preparing

	// Ready means the order is packed and waiting for a driver.
	Ready

	// InTransit means a driver holds the order and is delivering it.
	InTransit

	// Delivered means the driver completed the delivery. Terminal.
	Delivered

	// Cancelled means the patient cancelled before pickup. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Validated: "validated",
		Rejected:  "rejected",
		Paid:      "paid",
		Preparing: "preparing",
		Ready:     "ready",
		InTransit: "in_transit",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// getTransitions returns the allowed state graph. A status missing from the map
// is terminal.
func getTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Validated, Rejected, Cancelled},
		Validated: {Paid, Cancelled},
		Paid:      {Preparing, Cancelled},
		Preparing: {Ready, InTransit, Cancelled},
		Ready:     {InTransit, Cancelled},
		InTransit: {Delivered},
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidError("status")
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire/storage name of the status, e.g. "in_transit".
// It implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a storage/wire name back into a Status.
func StatusFromString(name string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == name && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", name))
}

// IsTerminal reports whether no further transitions are allowed from this status.
func (s Status) IsTerminal() bool {
	return len(getTransitions()[s]) == 0
}

// CanTransitionTo reports whether the graph allows moving from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status if the transition is allowed, or a
// conflict error describing the guard mismatch otherwise.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewConflictError("order",
			fmt.Sprintf("cannot transition from %s to %s", s, target))
	}
	return target, nil
}
