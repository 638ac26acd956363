package queries_test

import (
	"context"
	"testing"
	"time"

	"pharmacy/internal/adapters/out/postgres/orderrepo"
	"pharmacy/internal/core/application/usecases/queries"
	"pharmacy/internal/core/domain/model/kernel"
	"pharmacy/internal/core/domain/model/order"
	"pharmacy/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetOrderTrackingQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderTrackingQueryHandler
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.TrackingUpdateDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetOrderTrackingQueryHandler(db)
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, tracking_updates").Error
	suite.Require().NoError(err)
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) TestHandle_PendingOrder_ReturnsHeaderAndPlacementEntry() {
	testOrder := suite.savePendingOrder(time.Now())

	query, err := queries.NewGetOrderTrackingQuery(testOrder.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), result.OrderID)
	suite.Equal(order.Pending.String(), result.Status)
	suite.Nil(result.EstimatedDelivery)
	suite.Nil(result.DeliveredAt)
	suite.Require().Len(result.History, 1)
	suite.Equal(order.Pending.String(), result.History[0].Status)
	suite.Contains(result.History[0].Message, "awaiting pharmacy review")
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) TestHandle_DeliveredOrder_ReturnsFullHistoryInOrder() {
	base := time.Now().Add(-time.Hour)
	driverID := kernel.NewUUID()

	testOrder := suite.savePendingOrder(base)

	repo := orderrepo.NewGormOrderRepository(suite.db)
	reloaded, err := repo.Get(context.Background(), testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(reloaded.Approve(base.Add(1*time.Minute)))
	suite.Require().NoError(reloaded.MarkPaid("card", base.Add(2*time.Minute)))
	suite.Require().NoError(reloaded.StartPreparing(base.Add(3*time.Minute)))
	suite.Require().NoError(reloaded.MarkReady(base.Add(4*time.Minute)))
	suite.Require().NoError(reloaded.AssignDriver(driverID, base.Add(5*time.Minute)))
	suite.Require().NoError(reloaded.Complete(driverID, "handed to patient", base.Add(25*time.Minute)))
	suite.Require().NoError(repo.Update(context.Background(), reloaded))

	query, err := queries.NewGetOrderTrackingQuery(testOrder.ID())
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(order.Delivered.String(), result.Status)
	suite.NotNil(result.EstimatedDelivery)
	suite.NotNil(result.DeliveredAt)

	suite.Require().Len(result.History, 7)
	expected := []string{
		order.Pending.String(),
		order.Validated.String(),
		order.Paid.String(),
		order.Preparing.String(),
		order.Ready.String(),
		order.InTransit.String(),
		order.Delivered.String(),
	}
	for i, status := range expected {
		suite.Equal(status, result.History[i].Status, "History entry %d out of order", i)
	}
	suite.Equal("handed to patient", result.History[6].Message)
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) TestHandle_NonExistentOrder_ReturnsNotFoundError() {
	query, err := queries.NewGetOrderTrackingQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(context.Background(), query)

	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetOrderTrackingQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetOrderTrackingQuery constructor")
}

func (suite *GetOrderTrackingQueryHandlerTestSuite) savePendingOrder(placedAt time.Time) *order.Order {
	point, err := kernel.NewGeoPoint(48.8566, 2.3522)
	suite.Require().NoError(err)
	address, err := kernel.NewAddress("12 Rue de la Paix", "Paris", "75002", point)
	suite.Require().NoError(err)
	total, err := kernel.NewMoney(2450, "EUR")
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		total, address, placedAt,
	)
	suite.Require().NoError(err)

	repo := orderrepo.NewGormOrderRepository(suite.db)
	suite.Require().NoError(repo.Add(context.Background(), testOrder))
	return testOrder
}

func TestGetOrderTrackingQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderTrackingQueryHandlerTestSuite))
}
