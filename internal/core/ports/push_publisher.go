package ports

import (
	"context"

	"pharmacy/internal/core/domain/model/kernel"
)

// PushPayload is the message body delivered over the realtime channel.
type PushPayload struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

// PushPublisher delivers realtime notifications. Publishing is fire-and-forget:
// the fanout logs failures and never retries, and a failed push never affects
// the state transition that triggered it.
type PushPublisher interface {
	Publish(ctx context.Context, recipientID kernel.UUID, payload PushPayload) error
}
