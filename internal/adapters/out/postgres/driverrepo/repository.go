package driverrepo

import (
	"context"
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/driver"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GORM driver location repository.
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// Upsert inserts or replaces the driver's location record.
func (r *GormDriverRepository) Upsert(ctx context.Context, aggregate *driver.DriverLocation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "driver_id"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
}

// Get retrieves a driver's location record by driver ID.
func (r *GormDriverRepository) Get(ctx context.Context, driverID kernel.UUID) (*driver.DriverLocation, error) {
	return r.get(ctx, driverID, false)
}

// GetForUpdate retrieves a driver's location record holding a row lock.
func (r *GormDriverRepository) GetForUpdate(ctx context.Context, driverID kernel.UUID) (*driver.DriverLocation, error) {
	return r.get(ctx, driverID, true)
}

func (r *GormDriverRepository) get(ctx context.Context, driverID kernel.UUID, forUpdate bool) (*driver.DriverLocation, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto DriverLocationDTO
	if err := tx.First(&dto, "driver_id = ?", driverID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driverLocation", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves every driver currently marked available.
func (r *GormDriverRepository) GetAllAvailable(ctx context.Context) ([]*driver.DriverLocation, error) {
	var dtos []DriverLocationDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "is_available = ?", true).Error; err != nil {
		return nil, err
	}

	return r.toAggregates(dtos)
}

// GetStaleAvailable retrieves available drivers whose last ping predates the cutoff.
func (r *GormDriverRepository) GetStaleAvailable(ctx context.Context, cutoff time.Time) ([]*driver.DriverLocation, error) {
	var dtos []DriverLocationDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Find(&dtos, "is_available = ? AND updated_at < ?", true, cutoff).Error
	if err != nil {
		return nil, err
	}

	return r.toAggregates(dtos)
}

func (r *GormDriverRepository) toAggregates(dtos []DriverLocationDTO) ([]*driver.DriverLocation, error) {
	locations := make([]*driver.DriverLocation, 0, len(dtos))
	for _, dto := range dtos {
		location, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}
