package order

import (
	"time"

	"pharmacy/internal/core/domain/model/kernel"
)

// TrackingUpdate is an immutable, append-only audit entry recording one status
// transition of an order. Entries are never mutated or deleted; together they form
// the tracking history shown to patients and pharmacies.
type TrackingUpdate struct {
	id        kernel.UUID
	orderID   kernel.UUID
	status    Status
	message   string
	timestamp time.Time
}

// NewTrackingUpdate creates a tracking entry for a transition that just happened.
func NewTrackingUpdate(orderID kernel.UUID, status Status, message string, timestamp time.Time) TrackingUpdate {
	return TrackingUpdate{
		id:        kernel.NewUUID(),
		orderID:   orderID,
		status:    status,
		message:   message,
		timestamp: timestamp,
	}
}

// RestoreTrackingUpdate reconstructs a persisted tracking entry.
func RestoreTrackingUpdate(id, orderID kernel.UUID, status Status, message string, timestamp time.Time) TrackingUpdate {
	return TrackingUpdate{
		id:        id,
		orderID:   orderID,
		status:    status,
		message:   message,
		timestamp: timestamp,
	}
}

// ID returns the entry's unique identifier.
func (t TrackingUpdate) ID() kernel.UUID {
	return t.id
}

// OrderID returns the order this entry belongs to.
func (t TrackingUpdate) OrderID() kernel.UUID {
	return t.orderID
}

// Status returns the status the order transitioned into.
func (t TrackingUpdate) Status() Status {
	return t.status
}

// Message returns the human-readable transition message.
func (t TrackingUpdate) Message() string {
	return t.message
}

// Timestamp returns when the transition happened.
func (t TrackingUpdate) Timestamp() time.Time {
	return t.timestamp
}
