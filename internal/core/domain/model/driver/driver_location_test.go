package driver_test

import (
	"testing"
	"time"

	"pharmacy/internal/core/domain/model/driver"
	"pharmacy/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(41.0082, 28.9784)
	require.NoError(t, err)
	return p
}

func TestNewDriverLocation(t *testing.T) {
	now := time.Now()

	t.Run("new drivers start available", func(t *testing.T) {
		d, err := driver.NewDriverLocation(kernel.NewUUID(), testPoint(t), now)

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.True(t, d.IsAvailable())
		assert.Equal(t, now, d.UpdatedAt())
	})

	t.Run("fails with zero-value id or point", func(t *testing.T) {
		var zeroID kernel.UUID
		_, err := driver.NewDriverLocation(zeroID, testPoint(t), now)
		require.Error(t, err)

		var zeroPoint kernel.GeoPoint
		_, err = driver.NewDriverLocation(kernel.NewUUID(), zeroPoint, now)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var d driver.DriverLocation
		require.ErrorIs(t, d.Validate(), driver.ErrDriverLocationIsNotConstructed)
	})
}

func TestDriverLocation_Ping(t *testing.T) {
	now := time.Now()
	d, err := driver.NewDriverLocation(kernel.NewUUID(), testPoint(t), now)
	require.NoError(t, err)
	require.NoError(t, d.MarkUnavailable(now))

	later := now.Add(time.Minute)
	moved, err := kernel.NewGeoPoint(41.01, 28.99)
	require.NoError(t, err)

	require.NoError(t, d.Ping(moved, later))

	assert.Equal(t, moved, d.Point())
	assert.Equal(t, later, d.UpdatedAt())
	assert.False(t, d.IsAvailable(), "ping must not change availability")
}

func TestDriverLocation_Availability(t *testing.T) {
	now := time.Now()
	d, err := driver.NewDriverLocation(kernel.NewUUID(), testPoint(t), now)
	require.NoError(t, err)

	require.NoError(t, d.MarkUnavailable(now))
	assert.False(t, d.IsAvailable())

	require.NoError(t, d.MarkAvailable(now.Add(time.Minute)))
	assert.True(t, d.IsAvailable())
	assert.Equal(t, now.Add(time.Minute), d.UpdatedAt())
}

func TestDriverLocation_IsStale(t *testing.T) {
	now := time.Now()
	d, err := driver.NewDriverLocation(kernel.NewUUID(), testPoint(t), now)
	require.NoError(t, err)

	assert.False(t, d.IsStale(now.Add(-time.Minute)))
	assert.True(t, d.IsStale(now.Add(time.Minute)))
}
