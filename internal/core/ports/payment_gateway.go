package ports

import (
	"context"

	"pharmacy/internal/core/domain/model/kernel"
)

// PaymentGateway authorizes a payment with the external payment collaborator.
// The contract reserves a failure path, but the shipped implementation is a stub
// that always authorizes.
type PaymentGateway interface {
	Authorize(ctx context.Context, orderID kernel.UUID, amount kernel.Money, method string) error
}
