// Package rabbitmq delivers realtime push notifications over an AMQP topic
// exchange. Each recipient has a routing key derived from their user id, which
// client-facing gateways bind to.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange notifications are published to.
const Exchange = "pharmacy.notifications"

// Publisher implements PushPublisher over a shared AMQP connection.
// A channel is opened per publish; failed publishes are the fanout's problem,
// which logs and moves on.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
}

var _ ports.PushPublisher = (*Publisher)(nil)

// Connect dials the broker and declares the notification exchange.
func Connect(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err = ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{conn: conn}, nil
}

// Publish sends the payload to the recipient's routing key.
func (p *Publisher) Publish(ctx context.Context, recipientID kernel.UUID, payload ports.PushPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("connection is closed")
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	routingKey := fmt.Sprintf("user.%s", recipientID.String())

	err = ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Close shuts the underlying connection down.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
