package kernel

import (
	"errors"
	"fmt"

	"pharmacy/internal/pkg/errs"
	"pharmacy/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when validating a zero-value Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress")

// Address is the immutable delivery destination of an order: street, city,
// postal code, and the coordinates used for distance estimates.
type Address struct {
	street     string
	city       string
	postalCode string
	point      GeoPoint
	guard      guard.ConstructorGuard
}

// NewAddress creates an Address. Street and city are required; the point must be
// a properly constructed GeoPoint.
func NewAddress(street, city, postalCode string, point GeoPoint) (Address, error) {
	address := Address{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		address.setStreet(street),
		address.setCity(city),
		address.setPoint(point),
	); err != nil {
		return Address{}, err
	}
	address.postalCode = postalCode

	return address, nil
}

// Validate checks the Address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Street returns the street line of the address.
func (a Address) Street() string {
	return a.street
}

// City returns the city of the address.
func (a Address) City() string {
	return a.city
}

// PostalCode returns the postal code, which may be empty.
func (a Address) PostalCode() string {
	return a.postalCode
}

// Point returns the coordinates of the address.
func (a Address) Point() GeoPoint {
	return a.point
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return fmt.Sprintf("%s, %s %s", a.street, a.city, a.postalCode)
}

func (a *Address) setStreet(street string) error {
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setCity(city string) error {
	if city == "" {
		return errs.NewValueIsRequiredError("city")
	}
	a.city = city
	return nil
}

func (a *Address) setPoint(point GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	a.point = point
	return nil
}
