// Package ports defines the persistence and collaborator contracts consumed by the
// application core. Adapters implement these interfaces; handlers depend on them,
// never on concrete infrastructure.
package ports

import (
	"context"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for order aggregates. Update persists
// both the mutated row and the aggregate's pending tracking entries so that a
// status flip and its audit row commit together.
type OrderRepository interface {
	// Add persists a new order and its initial tracking entry.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order and appends its pending
	// tracking entries. Returns an object-not-found error if the row is gone.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order by id holding a row lock for the duration
	// of the enclosing transaction. Guard re-checks on transitions go through
	// this method so concurrent writers serialize on the row.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetInTransitByDriver retrieves the driver's active delivery, holding a row
	// lock. Returns an object-not-found error when the driver has none; used to
	// enforce the one-active-delivery-per-driver invariant.
	GetInTransitByDriver(ctx context.Context, driverID kernel.UUID) (*order.Order, error)
}
