package order

import (
	"errors"
	"fmt"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"
)

// DeliveryWindow is the fixed estimate added to the acceptance time when a driver
// takes an order; it becomes the order's estimatedDelivery.
const DeliveryWindow = 30 * time.Minute

// Default tracking messages per transition; overridden where the caller supplies one.
const (
	msgPlaced     = "Order placed and awaiting pharmacy review"
	msgValidated  = "Order validated by the pharmacy"
	msgRejected   = "Order rejected by the pharmacy"
	msgPaid       = "Payment received"
	msgPreparing  = "Payment confirmed, pharmacy is preparing the order"
	msgReady      = "Order packed and ready for pickup"
	msgInTransit  = "Driver accepted the delivery"
	msgDelivered  = "Order delivered"
	msgCancelled  = "Order cancelled by the patient"
	trackingOwner = "order"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created through
// NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for a patient's medicine order. It owns the status
// state machine, the driver assignment slot, payment markers, and the append-only
// tracking log.
//
// Invariants maintained by the aggregate:
//   - a driver is set only while the order is in_transit or delivered
//   - deliveredAt is set exactly when the order is delivered
//   - estimatedDelivery is set exactly when the order enters in_transit
//   - every successful transition appends exactly one TrackingUpdate
type Order struct {
	id         kernel.UUID
	patientID  kernel.UUID
	pharmacyID kernel.UUID
	driverID   *kernel.UUID

	status  Status
	total   kernel.Money
	address kernel.Address

	createdAt         time.Time
	updatedAt         time.Time
	estimatedDelivery *time.Time
	deliveredAt       *time.Time

	paymentMethod string
	paymentStatus string

	tracking        []TrackingUpdate
	pendingTracking []TrackingUpdate

	isConstructed bool
}

// NewOrder creates a freshly placed order in Pending status with its first
// tracking entry.
func NewOrder(
	id, patientID, pharmacyID kernel.UUID,
	total kernel.Money,
	address kernel.Address,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
		createdAt:     now,
		updatedAt:     now,
	}

	if err := errors.Join(
		o.setID(id),
		o.setPatientID(patientID),
		o.setPharmacyID(pharmacyID),
		o.setTotal(total),
		o.setAddress(address),
	); err != nil {
		return nil, err
	}

	o.appendTracking(Pending, msgPlaced, now)
	return o, nil
}

// RestoreOrder reconstructs an order from persistence. It re-validates the
// cross-field invariants so corrupt rows are rejected at the boundary.
func RestoreOrder(
	id, patientID, pharmacyID kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	total kernel.Money,
	address kernel.Address,
	createdAt, updatedAt time.Time,
	estimatedDelivery, deliveredAt *time.Time,
	paymentMethod, paymentStatus string,
) (*Order, error) {
	o := &Order{
		isConstructed: true,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}

	if err := errors.Join(
		o.setID(id),
		o.setPatientID(patientID),
		o.setPharmacyID(pharmacyID),
		o.setTotal(total),
		o.setAddress(address),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = status

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		if status != InTransit && status != Delivered {
			return nil, errs.NewValueIsInvalidErrorWithCause("driverId",
				fmt.Errorf("driver set while order is %s", status))
		}
	}
	if (deliveredAt != nil) != (status == Delivered) {
		return nil, errs.NewValueIsInvalidErrorWithCause("deliveredAt",
			fmt.Errorf("deliveredAt presence does not match status %s", status))
	}

	o.driverID = driverID
	o.estimatedDelivery = estimatedDelivery
	o.deliveredAt = deliveredAt
	o.paymentMethod = paymentMethod
	o.paymentStatus = paymentStatus
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// PatientID returns the ordering patient's identifier.
func (o *Order) PatientID() kernel.UUID { return o.patientID }

// PharmacyID returns the fulfilling pharmacy's identifier.
func (o *Order) PharmacyID() kernel.UUID { return o.pharmacyID }

// Driver returns the assigned driver's identifier, or nil if unassigned.
func (o *Order) Driver() *kernel.UUID { return o.driverID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Total returns the order total.
func (o *Order) Total() kernel.Money { return o.total }

// Address returns the delivery address.
func (o *Order) Address() kernel.Address { return o.address }

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns when the order last transitioned.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// EstimatedDelivery returns the delivery estimate set on pickup, or nil.
func (o *Order) EstimatedDelivery() *time.Time { return o.estimatedDelivery }

// DeliveredAt returns the delivery completion time, or nil.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// PaymentMethod returns the method recorded when the order was paid.
func (o *Order) PaymentMethod() string { return o.paymentMethod }

// PaymentStatus returns the payment marker recorded when the order was paid.
func (o *Order) PaymentStatus() string { return o.paymentStatus }

// IsOwnedBy reports whether the given patient placed this order.
func (o *Order) IsOwnedBy(patientID kernel.UUID) bool {
	return o.patientID.IsEqual(patientID)
}

// TrackingLog returns a copy of all tracking entries held by the aggregate.
func (o *Order) TrackingLog() []TrackingUpdate {
	out := make([]TrackingUpdate, len(o.tracking))
	copy(out, o.tracking)
	return out
}

// PendingTrackingUpdates returns the entries appended since the aggregate was
// created or restored. Repositories insert exactly these rows when persisting
// a transition, keeping status flip and audit row in one transaction.
func (o *Order) PendingTrackingUpdates() []TrackingUpdate {
	out := make([]TrackingUpdate, len(o.pendingTracking))
	copy(out, o.pendingTracking)
	return out
}

// Approve transitions a pending order to validated after pharmacy review.
func (o *Order) Approve(now time.Time) error {
	return o.transition(Validated, msgValidated, now)
}

// Reject transitions a pending order to rejected. The reason, when supplied,
// becomes the tracking message.
func (o *Order) Reject(reason string, now time.Time) error {
	msg := msgRejected
	if reason != "" {
		msg = reason
	}
	return o.transition(Rejected, msg, now)
}

// MarkPaid transitions a validated order to paid and records the payment method.
func (o *Order) MarkPaid(method string, now time.Time) error {
	if method == "" {
		return errs.NewValueIsRequiredError("paymentMethod")
	}
	if err := o.transition(Paid, msgPaid, now); err != nil {
		return err
	}
	o.paymentMethod = method
	o.paymentStatus = "paid"
	return nil
}

// StartPreparing transitions a paid order to preparing; this is the point where
// the order becomes visible to drivers browsing available deliveries.
func (o *Order) StartPreparing(now time.Time) error {
	return o.transition(Preparing, msgPreparing, now)
}

// MarkReady transitions a preparing order to ready for pickup.
func (o *Order) MarkReady(now time.Time) error {
	return o.transition(Ready, msgReady, now)
}

// AssignDriver claims the order for a driver and moves it to in_transit.
// The order must be ready or preparing and not yet claimed; estimatedDelivery is
// set to now + DeliveryWindow.
func (o *Order) AssignDriver(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID != nil {
		return errs.NewConflictError(trackingOwner, "order already assigned")
	}
	if o.status != Ready && o.status != Preparing {
		return errs.NewConflictError(trackingOwner,
			fmt.Sprintf("cannot accept delivery while order is %s", o.status))
	}

	if err := o.transition(InTransit, msgInTransit, now); err != nil {
		return err
	}

	o.driverID = &driverID
	eta := now.Add(DeliveryWindow)
	o.estimatedDelivery = &eta
	return nil
}

// Complete transitions an in_transit order to delivered for the owning driver.
// Notes, when supplied, become the tracking message; deliveredAt is set to now.
func (o *Order) Complete(driverID kernel.UUID, notes string, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return errs.NewConflictError(trackingOwner, "order is not assigned to this driver")
	}

	msg := msgDelivered
	if notes != "" {
		msg = notes
	}
	if err := o.transition(Delivered, msg, now); err != nil {
		return err
	}

	deliveredAt := now
	o.deliveredAt = &deliveredAt
	return nil
}

// Cancel transitions a pre-pickup order to cancelled. Once a driver holds the
// order the cancellation is a conflict.
func (o *Order) Cancel(now time.Time) error {
	return o.transition(Cancelled, msgCancelled, now)
}

// transition applies the status graph, stamps updatedAt, and appends the
// tracking entry. It either fully applies or leaves the aggregate untouched.
func (o *Order) transition(target Status, message string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = next
	o.updatedAt = now
	o.appendTracking(next, message, now)
	return nil
}

func (o *Order) appendTracking(status Status, message string, now time.Time) {
	entry := NewTrackingUpdate(o.id, status, message, now)
	o.tracking = append(o.tracking, entry)
	o.pendingTracking = append(o.pendingTracking, entry)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPatientID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return fmt.Errorf("patientId: %w", err)
	}
	o.patientID = id
	return nil
}

func (o *Order) setPharmacyID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return fmt.Errorf("pharmacyId: %w", err)
	}
	o.pharmacyID = id
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.total = total
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}
