// Package driverrepo persists driver location records. One row per driver,
// upserted on every ping and availability flip.
package driverrepo

import (
	"time"

	"pharmacy/internal/core/domain/model/driver"
	"pharmacy/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverLocationDTO represents the database structure for driver location records.
type DriverLocationDTO struct {
	DriverID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Latitude    float64
	Longitude   float64
	IsAvailable bool `gorm:"index"`
	// The aggregate stamps updatedAt itself; staleness detection depends on the
	// ping time, not the row write time.
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

// TableName specifies the database table name for driver locations.
func (DriverLocationDTO) TableName() string {
	return "driver_locations"
}

func fromDomain(aggregate *driver.DriverLocation) DriverLocationDTO {
	point := aggregate.Point()
	return DriverLocationDTO{
		DriverID:    aggregate.DriverID().Bytes(),
		Latitude:    point.Latitude(),
		Longitude:   point.Longitude(),
		IsAvailable: aggregate.IsAvailable(),
		UpdatedAt:   aggregate.UpdatedAt(),
	}
}

func toDomain(dto DriverLocationDTO) (*driver.DriverLocation, error) {
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	point, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriverLocation(driverID, point, dto.IsAvailable, dto.UpdatedAt)
}
