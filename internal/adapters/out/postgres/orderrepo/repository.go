package orderrepo

import (
	"context"
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activeDriverIndex is the partial unique index on orders(driver_id) filtered to
// in_transit rows. It backs the one-active-delivery-per-driver invariant at the
// database level; see OrderDTO.
const activeDriverIndex = "uidx_orders_driver_in_transit"

// uniqueViolationCode is PostgreSQL's unique_violation SQLSTATE.
const uniqueViolationCode = "23505"

// isActiveDriverViolation reports whether err is the active-delivery index
// rejecting a second in_transit assignment for the same driver.
func isActiveDriverViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolationCode &&
		pgErr.ConstraintName == activeDriverIndex
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order and its initial tracking entries to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isActiveDriverViolation(err) {
			return errs.NewConflictErrorWithCause("driver", "driver already has an active delivery", err)
		}
		return err
	}

	return r.appendTracking(ctx, aggregate)
}

// Update saves an existing order and appends its pending tracking entries.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	// Select("*") makes Updates write zero and nil fields too; an unset
	// deliveredAt or empty payment method must overwrite the row, not be skipped.
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		if isActiveDriverViolation(result.Error) {
			return errs.NewConflictErrorWithCause("driver", "driver already has an active delivery", result.Error)
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	return r.appendTracking(ctx, aggregate)
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an order by ID holding a row lock until the enclosing
// transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, true)
}

func (r *GormOrderRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := tx.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetInTransitByDriver retrieves the driver's active delivery under a row lock.
// Returns an object-not-found error when the driver has none.
func (r *GormOrderRepository) GetInTransitByDriver(ctx context.Context, driverID kernel.UUID) (*order.Order, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "driver_id = ? AND status = ?", driverID.Bytes(), order.InTransit.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("activeDelivery", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// appendTracking inserts the aggregate's pending tracking entries.
func (r *GormOrderRepository) appendTracking(ctx context.Context, aggregate *order.Order) error {
	pending := trackingFromDomain(aggregate.PendingTrackingUpdates())
	if len(pending) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&pending).Error
}
