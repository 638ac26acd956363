package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderTrackingQueryHandler reads an order's tracking view: current status,
// delivery estimates, and the append-only history of transitions.
type GetOrderTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTrackingQueryHandler creates a handler for tracking queries.
func NewGetOrderTrackingQueryHandler(db *gorm.DB) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db}
}

// Handle executes the tracking query. Returns an object-not-found error when
// the order does not exist.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response, err := h.orderHeader(ctx, query.OrderID())
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	history, err := h.history(ctx, query.OrderID())
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}
	response.History = history

	return response, nil
}

func (h GetOrderTrackingQueryHandler) orderHeader(
	ctx context.Context,
	orderID kernel.UUID,
) (GetOrderTrackingQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT status, estimated_delivery, delivered_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	var response GetOrderTrackingQueryResponse
	var estimatedDelivery, deliveredAt sql.NullTime

	err := row.Scan(&response.Status, &estimatedDelivery, &deliveredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("orderID", orderID)
	}
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response.OrderID = orderID
	if estimatedDelivery.Valid {
		response.EstimatedDelivery = &estimatedDelivery.Time
	}
	if deliveredAt.Valid {
		response.DeliveredAt = &deliveredAt.Time
	}

	return response, nil
}

func (h GetOrderTrackingQueryHandler) history(
	ctx context.Context,
	orderID kernel.UUID,
) ([]TrackingEntryResponse, error) {
	entries := make([]TrackingEntryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT status, message, timestamp
		FROM tracking_updates
		WHERE order_id = ?
		ORDER BY timestamp, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry TrackingEntryResponse
		var timestamp time.Time

		if err = rows.Scan(&entry.Status, &entry.Message, &timestamp); err != nil {
			return nil, err
		}
		entry.Timestamp = timestamp
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
