package ports

import (
	"context"

	"pharmacy/internal/core/domain/model/notification"
)

// NotificationRepository is the persistence contract for notification records.
// Records are insert-only from the engine's point of view; the messaging
// collaborator owns the read/unread lifecycle.
type NotificationRepository interface {
	// Add persists a new notification record.
	Add(ctx context.Context, record *notification.Record) error
}
