// Package payments holds the payment gateway adapter. The real marketplace
// collects payment through an external provider; this service only needs the
// authorization hook, and the shipped implementation approves everything.
package payments

import (
	"context"
	"log/slog"

	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/ports"
)

// StubGateway authorizes every payment. The port reserves a failure path for
// when a real provider is wired in.
type StubGateway struct {
	logger *slog.Logger
}

var _ ports.PaymentGateway = (*StubGateway)(nil)

// NewStubGateway creates the always-approving gateway.
func NewStubGateway(logger *slog.Logger) *StubGateway {
	return &StubGateway{logger: logger.With("component", "payment_gateway")}
}

// Authorize approves the payment unconditionally.
func (g *StubGateway) Authorize(ctx context.Context, orderID kernel.UUID, amount kernel.Money, method string) error {
	g.logger.InfoContext(ctx, "payment authorized",
		"orderId", orderID.String(), "amount", amount.String(), "method", method)
	return nil
}
