// Package notificationrepo persists notification records written by the
// post-commit fanout. Inserts only; the messaging collaborator owns reads.
package notificationrepo

import (
	"context"
	"time"

	"pharmacy/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationDTO represents the database structure for notification records.
type NotificationDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID  `gorm:"type:uuid;index"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Kind        string     `gorm:"type:varchar(32)"`
	Title       string     `gorm:"type:varchar(128)"`
	Message     string     `gorm:"type:varchar(512)"`
	Timestamp   time.Time
	IsRead      bool
}

// TableName specifies the database table name for notification records.
func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(record *notification.Record) NotificationDTO {
	var orderID *uuid.UUID
	if id := record.OrderID(); id != nil {
		raw := id.Bytes()
		orderID = &raw
	}

	return NotificationDTO{
		ID:          record.ID().Bytes(),
		RecipientID: record.RecipientID().Bytes(),
		OrderID:     orderID,
		Kind:        string(record.NotificationKind()),
		Title:       record.Title(),
		Message:     record.Message(),
		Timestamp:   record.Timestamp(),
		IsRead:      record.IsRead(),
	}
}

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add persists a new notification record.
func (r *GormNotificationRepository) Add(ctx context.Context, record *notification.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}
