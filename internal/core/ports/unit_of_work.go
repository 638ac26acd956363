package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per request/command, keeping
// concurrent operations isolated from each other.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents one business transaction boundary. Repositories obtained
// from it execute within the transaction started by Begin; Commit makes all of
// their writes durable together, Rollback discards them together. Client code
// manages the lifecycle explicitly. The coordinator pattern is:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil { ... }
//	defer func() { _ = uow.Rollback(ctx) }()
//	// guarded reads and mutations
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit is a no-op error that the deferred call ignores.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// DriverRepository returns a DriverRepository bound to the current transaction.
	DriverRepository() DriverRepository

	// NotificationRepository returns a NotificationRepository bound to the current transaction.
	NotificationRepository() NotificationRepository
}
