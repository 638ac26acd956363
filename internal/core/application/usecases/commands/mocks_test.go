package commands_test

import (
	"context"
	"testing"
	"time"

	"pharmacy/internal/core/application/notifications"
	"pharmacy/internal/core/application/usecases/commands"
	"pharmacy/internal/core/domain/model/driver"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetInTransitByDriver(ctx context.Context, driverID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Upsert(ctx context.Context, d *driver.DriverLocation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, driverID kernel.UUID) (*driver.DriverLocation, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.DriverLocation), args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, driverID kernel.UUID) (*driver.DriverLocation, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.DriverLocation), args.Error(1)
}

func (m *MockDriverRepository) GetAllAvailable(ctx context.Context) ([]*driver.DriverLocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.DriverLocation), args.Error(1)
}

func (m *MockDriverRepository) GetStaleAvailable(ctx context.Context, cutoff time.Time) ([]*driver.DriverLocation, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.DriverLocation), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Dispatch(ctx context.Context, event notifications.Event) {
	m.Called(ctx, event)
}

type MockRecipientDirectory struct{ mock.Mock }

func (m *MockRecipientDirectory) PharmacyOwner(ctx context.Context, pharmacyID kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, pharmacyID)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

func (m *MockRecipientDirectory) OwnsPharmacy(ctx context.Context, userID, pharmacyID kernel.UUID) (bool, error) {
	args := m.Called(ctx, userID, pharmacyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecipientDirectory) Admins(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Authorize(ctx context.Context, orderID kernel.UUID, amount kernel.Money, method string) error {
	args := m.Called(ctx, orderID, amount, method)
	return args.Error(0)
}

// Test data helpers.

func testAddress(t *testing.T) kernel.Address {
	t.Helper()
	point, err := kernel.NewGeoPoint(41.0082, 28.9784)
	require.NoError(t, err)
	address, err := kernel.NewAddress("12 Istiklal Ave", "Istanbul", "34000", point)
	require.NoError(t, err)
	return address
}

func testTotal(t *testing.T) kernel.Money {
	t.Helper()
	total, err := kernel.NewMoney(4250, kernel.DefaultCurrency)
	require.NoError(t, err)
	return total
}

func newTestOrder(t *testing.T, status order.Status, driverID *kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), testTotal(t), testAddress(t), time.Now())
	require.NoError(t, err)

	now := time.Now()
	steps := []func() error{
		func() error { return o.Approve(now) },
		func() error { return o.MarkPaid("card", now) },
		func() error { return o.StartPreparing(now) },
		func() error { return o.MarkReady(now) },
	}
	targets := []order.Status{order.Validated, order.Paid, order.Preparing, order.Ready}

	for i, target := range targets {
		if o.Status() == status {
			return o
		}
		require.NoError(t, steps[i]())
		_ = target
	}
	if o.Status() == status {
		return o
	}

	require.NotNil(t, driverID, "in_transit and delivered orders need a driver")
	require.NoError(t, o.AssignDriver(*driverID, now))
	if o.Status() == status {
		return o
	}

	require.NoError(t, o.Complete(*driverID, "", now))
	require.Equal(t, status, o.Status())
	return o
}

func newTestDriverLocation(t *testing.T, driverID kernel.UUID) *driver.DriverLocation {
	t.Helper()
	point, err := kernel.NewGeoPoint(41.0, 29.0)
	require.NoError(t, err)
	location, err := driver.NewDriverLocation(driverID, point, time.Now())
	require.NoError(t, err)
	return location
}
