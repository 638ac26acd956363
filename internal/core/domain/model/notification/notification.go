// Package notification contains the NotificationRecord entity created by the
// post-commit fanout. Records are write-once here; the read/unread lifecycle
// belongs to the messaging collaborator.
package notification

import (
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"
)

// Kind classifies a notification for clients; it mirrors the event that produced it.
type Kind string

const (
	KindDeliveryAccepted  Kind = "delivery_accepted"
	KindDeliveryCompleted Kind = "delivery_completed"
	KindPaymentProcessed  Kind = "payment_processed"
	KindNewDelivery       Kind = "new_delivery"
	KindOrderUpdate       Kind = "order_update"
)

// ErrRecordIsNotConstructed is returned when a Record was not created through NewRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord")

// Record is a single notification addressed to one user, optionally referencing
// the order that triggered it.
type Record struct {
	id          kernel.UUID
	recipientID kernel.UUID
	orderID     *kernel.UUID
	kind        Kind
	title       string
	message     string
	timestamp   time.Time
	isRead      bool

	isConstructed bool
}

// NewRecord creates an unread notification for a recipient.
func NewRecord(recipientID kernel.UUID, orderID *kernel.UUID, kind Kind, title, message string, now time.Time) (*Record, error) {
	if err := recipientID.Validate(); err != nil {
		return nil, err
	}
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return nil, err
		}
	}
	if title == "" {
		return nil, errs.NewValueIsRequiredError("title")
	}

	return &Record{
		id:            kernel.NewUUID(),
		recipientID:   recipientID,
		orderID:       orderID,
		kind:          kind,
		title:         title,
		message:       message,
		timestamp:     now,
		isConstructed: true,
	}, nil
}

// Validate ensures the record was properly constructed.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// ID returns the record's unique identifier.
func (r *Record) ID() kernel.UUID { return r.id }

// RecipientID returns the addressed user's identifier.
func (r *Record) RecipientID() kernel.UUID { return r.recipientID }

// OrderID returns the referenced order, or nil.
func (r *Record) OrderID() *kernel.UUID { return r.orderID }

// NotificationKind returns the record's classification.
func (r *Record) NotificationKind() Kind { return r.kind }

// Title returns the short headline.
func (r *Record) Title() string { return r.title }

// Message returns the body text.
func (r *Record) Message() string { return r.message }

// Timestamp returns when the record was created.
func (r *Record) Timestamp() time.Time { return r.timestamp }

// IsRead reports whether the recipient has seen the notification.
// Always false for freshly created records.
func (r *Record) IsRead() bool { return r.isRead }
