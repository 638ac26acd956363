package kernel

import (
	"fmt"

	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

// DefaultCurrency is assumed when the caller does not specify one.
const DefaultCurrency = "USD"

// ErrMoneyIsNotConstructed is returned when validating a zero-value Money.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney")

// Money is an immutable monetary amount stored in integer minor units (cents)
// to avoid floating-point rounding in order totals.
type Money struct {
	cents    int64
	currency string
	guard    guard.ConstructorGuard
}

// NewMoney creates a Money amount. Cents must be non-negative; an empty currency
// defaults to DefaultCurrency.
func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", cents))
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	return Money{
		cents:    cents,
		currency: currency,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the Money was created through NewMoney.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Currency returns the ISO currency code.
func (m Money) Currency() string {
	return m.currency
}

// String implements fmt.Stringer, e.g. "12.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.cents/100, m.cents%100, m.currency)
}

// IsEqual reports whether two amounts have the same value and currency.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents && m.currency == other.currency
}
