package notifications_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"pharmacy/internal/core/application/notifications"
	"pharmacy/internal/core/domain/model/driver"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/notification"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, record *notification.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
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

// fakeUoW is a pass-through unit of work over mocked repositories. The fanout
// opens short transactions of its own; the test only cares about repository
// traffic, not transaction mechanics.
type fakeUoW struct {
	notificationRepo *MockNotificationRepository
	driverRepo       *MockDriverRepository
}

func (u *fakeUoW) Begin(context.Context) error                        { return nil }
func (u *fakeUoW) Commit(context.Context) error                      { return nil }
func (u *fakeUoW) Rollback(context.Context) error                    { return nil }
func (u *fakeUoW) OrderRepository() ports.OrderRepository            { return nil }
func (u *fakeUoW) DriverRepository() ports.DriverRepository          { return u.driverRepo }
func (u *fakeUoW) NotificationRepository() ports.NotificationRepository {
	return u.notificationRepo
}

type fakeUoWFactory struct{ uow *fakeUoW }

func (f *fakeUoWFactory) Create() ports.UnitOfWork { return f.uow }

type MockDirectory struct{ mock.Mock }

func (m *MockDirectory) PharmacyOwner(ctx context.Context, pharmacyID kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, pharmacyID)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

func (m *MockDirectory) OwnsPharmacy(ctx context.Context, userID, pharmacyID kernel.UUID) (bool, error) {
	args := m.Called(ctx, userID, pharmacyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDirectory) Admins(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, recipientID kernel.UUID, payload ports.PushPayload) error {
	args := m.Called(ctx, recipientID, payload)
	return args.Error(0)
}

func newTestEvent(t *testing.T, kind notifications.EventKind) notifications.Event {
	t.Helper()
	point, err := kernel.NewGeoPoint(41.0, 29.0)
	require.NoError(t, err)
	address, err := kernel.NewAddress("12 Istiklal Ave", "Istanbul", "34000", point)
	require.NoError(t, err)
	total, err := kernel.NewMoney(1000, kernel.DefaultCurrency)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), total, address, time.Now())
	require.NoError(t, err)
	return notifications.NewOrderEvent(kind, o)
}

func newAvailableDriver(t *testing.T) *driver.DriverLocation {
	t.Helper()
	point, err := kernel.NewGeoPoint(41.0, 29.0)
	require.NoError(t, err)
	d, err := driver.NewDriverLocation(kernel.NewUUID(), point, time.Now())
	require.NoError(t, err)
	return d
}

func TestFanout_Dispatch_DeliveryAccepted(t *testing.T) {
	ctx := t.Context()
	event := newTestEvent(t, notifications.EventDeliveryAccepted)

	owner := kernel.NewUUID()
	admin := kernel.NewUUID()

	directory := new(MockDirectory)
	directory.On("PharmacyOwner", ctx, event.PharmacyID).Return(owner, nil).Once()
	directory.On("Admins", ctx).Return([]kernel.UUID{admin}, nil).Once()

	notificationRepo := new(MockNotificationRepository)
	notificationRepo.On("Add", ctx, mock.MatchedBy(func(r *notification.Record) bool {
		return r.NotificationKind() == notification.KindDeliveryAccepted
	})).Return(nil).Times(3)

	publisher := new(MockPublisher)
	for _, recipient := range []kernel.UUID{event.PatientID, owner, admin} {
		publisher.On("Publish", ctx, recipient, mock.MatchedBy(func(p ports.PushPayload) bool {
			return p.Kind == string(notification.KindDeliveryAccepted) && p.OrderID == event.OrderID.String()
		})).Return(nil).Once()
	}

	factory := &fakeUoWFactory{uow: &fakeUoW{
		notificationRepo: notificationRepo,
		driverRepo:       new(MockDriverRepository),
	}}

	fanout := notifications.NewFanout(factory, directory, publisher, slog.Default())
	fanout.Dispatch(ctx, event)

	directory.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestFanout_Dispatch_PaymentValidatedBroadcastsToDrivers(t *testing.T) {
	ctx := t.Context()
	event := newTestEvent(t, notifications.EventPaymentValidated)

	owner := kernel.NewUUID()
	firstDriver := newAvailableDriver(t)
	secondDriver := newAvailableDriver(t)

	directory := new(MockDirectory)
	directory.On("PharmacyOwner", ctx, event.PharmacyID).Return(owner, nil).Once()
	directory.On("Admins", ctx).Return([]kernel.UUID{}, nil).Once()

	driverRepo := new(MockDriverRepository)
	driverRepo.On("GetAllAvailable", ctx).
		Return([]*driver.DriverLocation{firstDriver, secondDriver}, nil).Once()

	notificationRepo := new(MockNotificationRepository)
	notificationRepo.On("Add", ctx, mock.Anything).Return(nil).Times(3)

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, event.PatientID, mock.MatchedBy(func(p ports.PushPayload) bool {
		return p.Kind == string(notification.KindOrderUpdate)
	})).Return(nil).Once()
	for _, d := range []*driver.DriverLocation{firstDriver, secondDriver} {
		publisher.On("Publish", ctx, d.DriverID(), mock.MatchedBy(func(p ports.PushPayload) bool {
			return p.Kind == string(notification.KindNewDelivery)
		})).Return(nil).Once()
	}

	factory := &fakeUoWFactory{uow: &fakeUoW{
		notificationRepo: notificationRepo,
		driverRepo:       driverRepo,
	}}

	fanout := notifications.NewFanout(factory, directory, publisher, slog.Default())
	fanout.Dispatch(ctx, event)

	driverRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestFanout_Dispatch_PushFailureIsSwallowed(t *testing.T) {
	ctx := t.Context()
	event := newTestEvent(t, notifications.EventDeliveryCompleted)

	owner := kernel.NewUUID()
	directory := new(MockDirectory)
	directory.On("PharmacyOwner", ctx, event.PharmacyID).Return(owner, nil).Once()
	directory.On("Admins", ctx).Return([]kernel.UUID{}, nil).Once()

	notificationRepo := new(MockNotificationRepository)
	notificationRepo.On("Add", ctx, mock.Anything).Return(nil).Times(2)

	publisher := new(MockPublisher)
	publisher.On("Publish", ctx, mock.Anything, mock.Anything).
		Return(errors.New("broker unreachable")).Times(2)

	factory := &fakeUoWFactory{uow: &fakeUoW{
		notificationRepo: notificationRepo,
		driverRepo:       new(MockDriverRepository),
	}}

	fanout := notifications.NewFanout(factory, directory, publisher, slog.Default())

	assert.NotPanics(t, func() { fanout.Dispatch(ctx, event) })
	publisher.AssertExpectations(t)
}
