package queries

import (
	"context"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableDeliveriesQueryHandler builds a driver's delivery feed.
// Unassigned orders in "preparing" or "ready" status are claimable; orders
// still preparing are shown so drivers can head to the pharmacy early.
type GetAvailableDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableDeliveriesQueryHandler creates a handler for the delivery feed.
// Requires a GORM database connection for query execution.
func NewGetAvailableDeliveriesQueryHandler(db *gorm.DB) GetAvailableDeliveriesQueryHandler {
	return GetAvailableDeliveriesQueryHandler{db: db}
}

// Handle executes the feed query. A driver with an active delivery gets an
// empty feed. Results are sorted oldest-first so long-waiting orders surface.
func (h GetAvailableDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDeliveriesQuery,
) ([]GetAvailableDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	busy, err := h.hasActiveDelivery(ctx, query.DriverID())
	if err != nil {
		return nil, err
	}
	if busy {
		return []GetAvailableDeliveriesQueryResponse{}, nil
	}

	driverPoint, err := h.driverPoint(ctx, query.DriverID())
	if err != nil {
		return nil, err
	}

	deliveries := make([]GetAvailableDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			street,
			city,
			postal_code,
			total_cents,
			currency,
			latitude,
			longitude,
			created_at
		FROM orders
		WHERE status IN (?, ?)
		  AND driver_id IS NULL
		ORDER BY created_at
	`, order.Preparing.String(), order.Ready.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAvailableDeliveriesQueryResponse
		var id uuid.UUID
		var latitude, longitude float64
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&resp.Status,
			&resp.Street,
			&resp.City,
			&resp.PostalCode,
			&resp.TotalCents,
			&resp.Currency,
			&latitude,
			&longitude,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.OrderID = orderID
		resp.CreatedAt = createdAt

		if driverPoint != nil {
			destination, pointErr := kernel.NewGeoPoint(latitude, longitude)
			if pointErr != nil {
				return nil, pointErr
			}
			distance, distErr := driverPoint.DistanceKmTo(destination)
			if distErr != nil {
				return nil, distErr
			}
			resp.DistanceKm = &distance
		}

		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}

// hasActiveDelivery reports whether the driver holds an in_transit order.
func (h GetAvailableDeliveriesQueryHandler) hasActiveDelivery(ctx context.Context, driverID kernel.UUID) (bool, error) {
	var count int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT count(*)
		FROM orders
		WHERE driver_id = ?
		  AND status = ?
	`, driverID.Bytes(), order.InTransit.String()).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// driverPoint loads the driver's last reported position, or nil without error
// when the driver has never pinged.
func (h GetAvailableDeliveriesQueryHandler) driverPoint(ctx context.Context, driverID kernel.UUID) (*kernel.GeoPoint, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT latitude, longitude
		FROM driver_locations
		WHERE driver_id = ?
	`, driverID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var latitude, longitude float64
	if err = rows.Scan(&latitude, &longitude); err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(latitude, longitude)
	if err != nil {
		return nil, err
	}
	return &point, nil
}
