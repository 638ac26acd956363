package ports

import (
	"context"
	"time"

	"pharmacy/internal/core/domain/model/driver"
	"pharmacy/internal/core/domain/model/kernel"
)

// DriverRepository is the persistence contract for driver location records.
type DriverRepository interface {
	// Upsert inserts or replaces the driver's location record. Pings and
	// availability flips both go through this method.
	Upsert(ctx context.Context, aggregate *driver.DriverLocation) error

	// Get retrieves a driver's location record by driver id.
	Get(ctx context.Context, driverID kernel.UUID) (*driver.DriverLocation, error)

	// GetForUpdate retrieves a driver's location record holding a row lock.
	GetForUpdate(ctx context.Context, driverID kernel.UUID) (*driver.DriverLocation, error)

	// GetAllAvailable retrieves every driver currently marked available.
	// Used for the new-delivery broadcast.
	GetAllAvailable(ctx context.Context) ([]*driver.DriverLocation, error)

	// GetStaleAvailable retrieves available drivers whose last ping is older
	// than the cutoff. Used by the availability sweep.
	GetStaleAvailable(ctx context.Context, cutoff time.Time) ([]*driver.DriverLocation, error)
}
