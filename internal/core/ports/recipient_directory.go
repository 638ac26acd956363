package ports

import (
	"context"

	"pharmacy/internal/core/domain/model/kernel"
)

// Roles as recorded by the identity collaborator in the users read model.
const (
	RoleAdmin      = "admin"
	RolePatient    = "patient"
	RolePharmacist = "pharmacist"
	RoleDriver     = "driver"
)

// RecipientDirectory resolves notification recipients from the identity
// collaborator's read model. The engine only reads it; user management is out
// of scope.
type RecipientDirectory interface {
	// PharmacyOwner returns the user id of the pharmacist owning the pharmacy.
	PharmacyOwner(ctx context.Context, pharmacyID kernel.UUID) (kernel.UUID, error)

	// OwnsPharmacy reports whether the user owns the given pharmacy. Used by the
	// payment-validation and fulfillment guards.
	OwnsPharmacy(ctx context.Context, userID, pharmacyID kernel.UUID) (bool, error)

	// Admins returns the user ids of all platform administrators.
	Admins(ctx context.Context) ([]kernel.UUID, error)
}
