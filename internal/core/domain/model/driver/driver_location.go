// Package driver contains the DriverLocation aggregate: a driver's last known
// position and availability flag. Availability is flipped by the delivery
// coordinator (false while the driver holds an in_transit order) and by the
// staleness sweep when pings stop arriving.
package driver

import (
	"errors"
	"time"

	"pharmacy/internal/core/domain/model/kernel"
)

// ErrDriverLocationIsNotConstructed is returned when a DriverLocation was not
// created through NewDriverLocation or RestoreDriverLocation.
var ErrDriverLocationIsNotConstructed = errors.New(
	"DriverLocation must be created via NewDriverLocation or RestoreDriverLocation")

// DriverLocation tracks one driver's position and availability. The driver's user
// id doubles as the aggregate identity; rows are upserted on every ping.
type DriverLocation struct {
	driverID    kernel.UUID
	point       kernel.GeoPoint
	isAvailable bool
	updatedAt   time.Time

	isConstructed bool
}

// NewDriverLocation registers a driver's first ping. New drivers start available.
func NewDriverLocation(driverID kernel.UUID, point kernel.GeoPoint, now time.Time) (*DriverLocation, error) {
	if err := errors.Join(driverID.Validate(), point.Validate()); err != nil {
		return nil, err
	}

	return &DriverLocation{
		driverID:      driverID,
		point:         point,
		isAvailable:   true,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreDriverLocation reconstructs a persisted record.
func RestoreDriverLocation(driverID kernel.UUID, point kernel.GeoPoint, isAvailable bool, updatedAt time.Time) (*DriverLocation, error) {
	if err := errors.Join(driverID.Validate(), point.Validate()); err != nil {
		return nil, err
	}

	return &DriverLocation{
		driverID:      driverID,
		point:         point,
		isAvailable:   isAvailable,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the record was properly constructed.
func (d *DriverLocation) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverLocationIsNotConstructed
	}
	return nil
}

// DriverID returns the driver's user identifier.
func (d *DriverLocation) DriverID() kernel.UUID { return d.driverID }

// Point returns the last reported position.
func (d *DriverLocation) Point() kernel.GeoPoint { return d.point }

// IsAvailable reports whether the driver can accept a delivery.
func (d *DriverLocation) IsAvailable() bool { return d.isAvailable }

// UpdatedAt returns when the record last changed.
func (d *DriverLocation) UpdatedAt() time.Time { return d.updatedAt }

// Ping records a new position report. Availability is untouched: a driver on an
// active delivery keeps pinging without becoming assignable.
func (d *DriverLocation) Ping(point kernel.GeoPoint, now time.Time) error {
	if err := errors.Join(d.Validate(), point.Validate()); err != nil {
		return err
	}
	d.point = point
	d.updatedAt = now
	return nil
}

// MarkUnavailable flags the driver as unable to take deliveries: set by the
// delivery coordinator while the driver holds an in_transit order, and by the
// staleness sweep when pings stop arriving.
func (d *DriverLocation) MarkUnavailable(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.isAvailable = false
	d.updatedAt = now
	return nil
}

// MarkAvailable flags the driver as able to take deliveries again.
func (d *DriverLocation) MarkAvailable(now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.isAvailable = true
	d.updatedAt = now
	return nil
}

// IsStale reports whether the last ping is older than the cutoff.
func (d *DriverLocation) IsStale(cutoff time.Time) bool {
	return d.updatedAt.Before(cutoff)
}
