// Package userdirectory reads the users table maintained by the identity
// collaborator. The engine never writes it; rows appear through account
// provisioning outside this service.
package userdirectory

import (
	"context"
	"errors"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/ports"
	"pharmacy/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO represents one row of the shared users read model.
type UserDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Role       string     `gorm:"type:varchar(16);index"`
	PharmacyID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName specifies the database table name for users.
func (UserDTO) TableName() string {
	return "users"
}

// GormRecipientDirectory implements RecipientDirectory over the users table.
type GormRecipientDirectory struct {
	db *gorm.DB
}

var _ ports.RecipientDirectory = (*GormRecipientDirectory)(nil)

// NewGormRecipientDirectory creates a directory over the given connection.
func NewGormRecipientDirectory(db *gorm.DB) *GormRecipientDirectory {
	return &GormRecipientDirectory{db: db}
}

// PharmacyOwner returns the pharmacist owning the given pharmacy.
func (d *GormRecipientDirectory) PharmacyOwner(ctx context.Context, pharmacyID kernel.UUID) (kernel.UUID, error) {
	if err := pharmacyID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var dto UserDTO
	err := d.db.WithContext(ctx).
		First(&dto, "role = ? AND pharmacy_id = ?", ports.RolePharmacist, pharmacyID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("pharmacyOwner", pharmacyID.String())
		}
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromBytes(dto.ID[:])
}

// OwnsPharmacy reports whether the user is the pharmacist owning the pharmacy.
func (d *GormRecipientDirectory) OwnsPharmacy(ctx context.Context, userID, pharmacyID kernel.UUID) (bool, error) {
	if err := errors.Join(userID.Validate(), pharmacyID.Validate()); err != nil {
		return false, err
	}

	var count int64
	err := d.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ? AND role = ? AND pharmacy_id = ?",
			userID.Bytes(), ports.RolePharmacist, pharmacyID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Admins returns the user ids of all platform administrators.
func (d *GormRecipientDirectory) Admins(ctx context.Context) ([]kernel.UUID, error) {
	var dtos []UserDTO
	if err := d.db.WithContext(ctx).Find(&dtos, "role = ?", ports.RoleAdmin).Error; err != nil {
		return nil, err
	}

	admins := make([]kernel.UUID, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		admins = append(admins, id)
	}
	return admins, nil
}
