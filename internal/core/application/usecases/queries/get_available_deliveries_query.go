// Package queries contains read-only operations over the database.
// Query handlers bypass the aggregates and read projection rows directly,
// implementing the read side of the CQRS architecture.
package queries

import (
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/guard"
)

var ErrGetAvailableDeliveriesQueryIsNotConstructed = errors.New(
	"GetAvailableDeliveriesQuery must be created via NewGetAvailableDeliveriesQuery constructor",
)

// GetAvailableDeliveriesQuery retrieves the unassigned orders a driver could
// claim. A driver who already has an active delivery gets an empty list: the
// feed is how drivers discover work, and a busy driver has none to pick up.
//
// Example:
//
//	query, err := NewGetAvailableDeliveriesQuery(driverID)
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetAvailableDeliveriesQueryHandler(db)
//	deliveries, err := handler.Handle(ctx, query)
type GetAvailableDeliveriesQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAvailableDeliveriesQuery creates a query for the given driver's feed.
func NewGetAvailableDeliveriesQuery(driverID kernel.UUID) (GetAvailableDeliveriesQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetAvailableDeliveriesQuery{}, err
	}

	return GetAvailableDeliveriesQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableDeliveriesQueryIsNotConstructed)
}

// DriverID returns the browsing driver's identifier.
func (q GetAvailableDeliveriesQuery) DriverID() kernel.UUID {
	return q.driverID
}

// GetAvailableDeliveriesQueryResponse is one claimable delivery in the feed.
// DistanceKm is the straight-line distance from the driver's last reported
// position to the delivery address; nil when the driver has never pinged.
type GetAvailableDeliveriesQueryResponse struct {
	OrderID    kernel.UUID
	Status     string
	Street     string
	City       string
	PostalCode string
	TotalCents int64
	Currency   string
	CreatedAt  time.Time
	DistanceKm *float64
}
