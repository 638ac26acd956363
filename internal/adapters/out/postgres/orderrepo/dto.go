// Package orderrepo provides data transfer objects and mapping functions for order
// persistence. This package implements the repository pattern for the order aggregate,
// handling the conversion between domain entities and database representations.
// Tracking entries live in their own table and are written together with the order
// row, so a status flip and its audit entry commit atomically.
package orderrepo

import (
	"time"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by status and driver assignment for the delivery feed and the
// one-active-delivery guard.
//
// The partial unique index on driver_id is the serialization point for one
// driver racing to accept two different orders: each transaction holds a lock
// on its own order row only, so the index write is the first point where the
// second acceptance has to wait and then fail.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PatientID         uuid.UUID  `gorm:"type:uuid;index"`
	PharmacyID        uuid.UUID  `gorm:"type:uuid;index"`
	DriverID          *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uidx_orders_driver_in_transit,where:status = 'in_transit'"`
	Status            string     `gorm:"type:varchar(16);index"`
	TotalCents        int64
	Currency          string     `gorm:"type:varchar(8)"`
	Address           AddressDTO `gorm:"embedded"`
	CreatedAt         time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false"`
	EstimatedDelivery *time.Time
	DeliveredAt       *time.Time
	PaymentMethod     string `gorm:"type:varchar(32)"`
	PaymentStatus     string `gorm:"type:varchar(16)"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded delivery address within the order table.
type AddressDTO struct {
	Street     string `gorm:"type:varchar(255)"`
	City       string `gorm:"type:varchar(128)"`
	PostalCode string `gorm:"type:varchar(16)"`
	Latitude   float64
	Longitude  float64
}

// TrackingUpdateDTO represents one persisted tracking entry. Rows are append-only.
type TrackingUpdateDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Status    string    `gorm:"type:varchar(16)"`
	Message   string    `gorm:"type:varchar(512)"`
	Timestamp time.Time
}

// TableName specifies the database table name for tracking entries.
func (TrackingUpdateDTO) TableName() string {
	return "tracking_updates"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	point := aggregate.Address().Point()
	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		PatientID:  aggregate.PatientID().Bytes(),
		PharmacyID: aggregate.PharmacyID().Bytes(),
		DriverID:   driverID,
		Status:     aggregate.Status().String(),
		TotalCents: aggregate.Total().Cents(),
		Currency:   aggregate.Total().Currency(),
		Address: AddressDTO{
			Street:     aggregate.Address().Street(),
			City:       aggregate.Address().City(),
			PostalCode: aggregate.Address().PostalCode(),
			Latitude:   point.Latitude(),
			Longitude:  point.Longitude(),
		},
		CreatedAt:         aggregate.CreatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		DeliveredAt:       aggregate.DeliveredAt(),
		PaymentMethod:     aggregate.PaymentMethod(),
		PaymentStatus:     aggregate.PaymentStatus(),
	}
}

// trackingFromDomain converts pending tracking entries to their database rows.
func trackingFromDomain(updates []order.TrackingUpdate) []TrackingUpdateDTO {
	dtos := make([]TrackingUpdateDTO, 0, len(updates))
	for _, update := range updates {
		dtos = append(dtos, TrackingUpdateDTO{
			ID:        update.ID().Bytes(),
			OrderID:   update.OrderID().Bytes(),
			Status:    update.Status().String(),
			Message:   update.Message(),
			Timestamp: update.Timestamp(),
		})
	}
	return dtos
}

// toDomain converts a database DTO to an order aggregate using RestoreOrder,
// which re-validates the cross-field invariants at the boundary.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	patientID, err := kernel.UUIDFromBytes(dto.PatientID[:])
	if err != nil {
		return nil, err
	}
	pharmacyID, err := kernel.UUIDFromBytes(dto.PharmacyID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalCents, dto.Currency)
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(dto.Address.Latitude, dto.Address.Longitude)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.Address.Street, dto.Address.City, dto.Address.PostalCode, point)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, patientID, pharmacyID,
		driverID,
		status,
		total,
		address,
		dto.CreatedAt, dto.UpdatedAt,
		dto.EstimatedDelivery, dto.DeliveredAt,
		dto.PaymentMethod, dto.PaymentStatus,
	)
}
