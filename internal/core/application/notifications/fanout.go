// Package notifications implements the post-commit notification fanout.
//
// The fanout is strictly decoupled from the transaction that produced the event:
// command handlers commit first, then hand the event over. Everything in here is
// best-effort: a failed record insert or realtime push is logged and swallowed,
// and can never reverse the committed state transition.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"
)

// EventKind identifies which transition an event describes.
type EventKind string

const (
	EventDeliveryAccepted  EventKind = "delivery_accepted"
	EventDeliveryCompleted EventKind = "delivery_completed"
	EventPaymentProcessed  EventKind = "payment_processed"
	EventPaymentValidated  EventKind = "payment_validated"
)

// Event is an immutable snapshot of a committed transition, taken from the order
// aggregate after its unit of work committed.
type Event struct {
	Kind       EventKind
	OrderID    kernel.UUID
	PatientID  kernel.UUID
	PharmacyID kernel.UUID
	DriverID   *kernel.UUID
}

// NewOrderEvent snapshots the given order into an event of the given kind.
func NewOrderEvent(kind EventKind, o *order.Order) Event {
	return Event{
		Kind:       kind,
		OrderID:    o.ID(),
		PatientID:  o.PatientID(),
		PharmacyID: o.PharmacyID(),
		DriverID:   o.Driver(),
	}
}

// Dispatcher is the contract command handlers use to hand over a committed event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// delivery is one notification about to be recorded and pushed.
type delivery struct {
	recipientID kernel.UUID
	kind        notification.Kind
	title       string
	message     string
}

// Fanout computes the interested-party set for each event kind, persists a
// NotificationRecord per recipient, and attempts a realtime push for each.
type Fanout struct {
	uowFactory ports.UnitOfWorkFactory
	directory  ports.RecipientDirectory
	publisher  ports.PushPublisher
	logger     *slog.Logger
}

// NewFanout creates a notification fanout.
func NewFanout(
	uowFactory ports.UnitOfWorkFactory,
	directory ports.RecipientDirectory,
	publisher ports.PushPublisher,
	logger *slog.Logger,
) *Fanout {
	return &Fanout{
		uowFactory: uowFactory,
		directory:  directory,
		publisher:  publisher,
		logger:     logger.With("component", "notification_fanout"),
	}
}

// Dispatch fans the event out to its recipients. It never returns an error:
// every failure is logged with the event context and otherwise ignored.
func (f *Fanout) Dispatch(ctx context.Context, event Event) {
	deliveries, err := f.buildDeliveries(ctx, event)
	if err != nil {
		f.logger.ErrorContext(ctx, "failed to resolve notification recipients",
			"event", string(event.Kind), "orderId", event.OrderID.String(), "error", err)
		return
	}

	f.persistRecords(ctx, event, deliveries)

	for _, d := range deliveries {
		payload := ports.PushPayload{
			Kind:    string(d.kind),
			Title:   d.title,
			Message: d.message,
			OrderID: event.OrderID.String(),
		}
		if pushErr := f.publisher.Publish(ctx, d.recipientID, payload); pushErr != nil {
			notifErr := errs.NewNotificationError(d.recipientID.String(), pushErr)
			f.logger.WarnContext(ctx, "realtime push failed",
				"event", string(event.Kind), "orderId", event.OrderID.String(), "error", notifErr)
		}
	}
}

// buildDeliveries applies the recipient matrix for the event kind.
func (f *Fanout) buildDeliveries(ctx context.Context, event Event) ([]delivery, error) {
	owner, err := f.directory.PharmacyOwner(ctx, event.PharmacyID)
	if err != nil {
		return nil, err
	}
	admins, err := f.directory.Admins(ctx)
	if err != nil {
		return nil, err
	}

	short := shortID(event.OrderID)
	var deliveries []delivery

	appendFor := func(ids []kernel.UUID, kind notification.Kind, title, message string) {
		for _, id := range ids {
			deliveries = append(deliveries, delivery{
				recipientID: id, kind: kind, title: title, message: message,
			})
		}
	}

	switch event.Kind {
	case EventDeliveryAccepted:
		appendFor(append([]kernel.UUID{event.PatientID, owner}, admins...),
			notification.KindDeliveryAccepted,
			"Delivery accepted",
			fmt.Sprintf("A driver accepted order %s and is on the way", short))

	case EventDeliveryCompleted:
		appendFor(append([]kernel.UUID{event.PatientID, owner}, admins...),
			notification.KindDeliveryCompleted,
			"Order delivered",
			fmt.Sprintf("Order %s has been delivered", short))

	case EventPaymentProcessed:
		appendFor(append([]kernel.UUID{event.PatientID, owner}, admins...),
			notification.KindPaymentProcessed,
			"Payment received",
			fmt.Sprintf("Payment for order %s was processed", short))

	case EventPaymentValidated:
		appendFor(append([]kernel.UUID{event.PatientID}, admins...),
			notification.KindOrderUpdate,
			"Order in preparation",
			fmt.Sprintf("Payment for order %s was confirmed, the pharmacy is preparing it", short))

		driverIDs, driverErr := f.availableDriverIDs(ctx)
		if driverErr != nil {
			return nil, driverErr
		}
		appendFor(driverIDs,
			notification.KindNewDelivery,
			"New delivery available",
			fmt.Sprintf("Order %s will soon be ready for pickup", short))

	default:
		return nil, errs.NewValueIsInvalidError("eventKind")
	}

	return deliveries, nil
}

// availableDriverIDs reads the current broadcast audience in its own short
// transaction, outside any caller transaction by construction.
func (f *Fanout) availableDriverIDs(ctx context.Context) ([]kernel.UUID, error) {
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	drivers, err := uow.DriverRepository().GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(drivers))
	for _, d := range drivers {
		ids = append(ids, d.DriverID())
	}
	return ids, nil
}

// persistRecords writes one NotificationRecord per delivery in a single short
// transaction. A failure here loses the records but not the pushes, and is
// logged rather than surfaced.
func (f *Fanout) persistRecords(ctx context.Context, event Event, deliveries []delivery) {
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		f.logNotificationFailure(ctx, event, err)
		return
	}
	defer func() { _ = uow.Rollback(ctx) }()

	repo := uow.NotificationRepository()
	orderID := event.OrderID

	for _, d := range deliveries {
		record, err := notification.NewRecord(
			d.recipientID, &orderID, d.kind, d.title, d.message, time.Now())
		if err != nil {
			f.logNotificationFailure(ctx, event, err)
			return
		}
		if err = repo.Add(ctx, record); err != nil {
			f.logNotificationFailure(ctx, event, err)
			return
		}
	}

	if err := uow.Commit(ctx); err != nil {
		f.logNotificationFailure(ctx, event, err)
	}
}

func (f *Fanout) logNotificationFailure(ctx context.Context, event Event, err error) {
	f.logger.WarnContext(ctx, "failed to persist notification records",
		"event", string(event.Kind), "orderId", event.OrderID.String(), "error", err)
}

func shortID(id kernel.UUID) string {
	s := id.String()
	return s[:8]
}
