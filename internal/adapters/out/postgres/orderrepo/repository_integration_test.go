package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/adapters/out/postgres/orderrepo"
	"lastmile/internal/adapters/out/postgres/pgtest"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func TestOrderRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ThenGet_RestoresEveryField() {
	ctx := context.Background()
	o := suite.newOrder(ledger.MethodCOD)
	o.SetContacts(
		order.Contact{Name: "Fresh Mart", Phone: "+91 80 1111 2222"},
		order.Contact{Name: "Asha", Phone: "+91 98 7654 3210"},
	)

	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", o.ID(), o)

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Equal(o.ID(), got.ID())
	suite.Equal("ORD-1001", got.Number())
	suite.Equal(order.StagePending, got.Stage())
	suite.Nil(got.Courier())
	suite.Equal(ledger.MethodCOD, got.PaymentMethod())
	suite.Equal(order.PaymentPending, got.PaymentStatus())
	suite.True(decimal.NewFromInt(999).Equal(got.Amounts().GrandTotal()))
	suite.True(decimal.NewFromInt(40).Equal(got.Amounts().ShippingFee()))
	suite.Require().NotNil(got.PickupPoint())
	suite.InDelta(12.9716, got.PickupPoint().Lat(), 1e-9)
	suite.Nil(got.DropPoint())
	suite.Equal("Asha", got.Customer().Name)
	suite.Equal("Fresh Mart", got.Store().Name)
	suite.Empty(got.SkippedBy())
	suite.Equal(int64(0), got.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Unknown_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_BumpsVersionAndStoresMilestones() {
	ctx := context.Background()
	courierID := kernel.NewUUID()
	o := suite.newOrder(ledger.MethodCOD)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	suite.Require().NoError(o.Accept(courierID, at))
	suite.Require().NoError(suite.repository.Claim(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StageAccepted, got.Stage())
	suite.Require().NotNil(got.Courier())
	suite.Equal(courierID, *got.Courier())
	suite.Require().NotNil(got.Milestones().AcceptedAt)
	suite.True(at.Equal(*got.Milestones().AcceptedAt))
	suite.Equal(int64(1), got.Version())

	suite.Require().NoError(got.Pickup(courierID, at.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, got))

	again, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StagePickedUp, again.Stage())
	suite.Equal(int64(2), again.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleCopy_ReturnsVersionConflict() {
	ctx := context.Background()
	o := suite.newOrder(ledger.MethodCOD)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	first, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	_, err = first.Skip(kernel.NewUUID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	_, err = second.Skip(kernel.NewUUID(), time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second)

	suite.Require().Error(err)
	suite.ErrorIs(err, ports.ErrVersionConflict)
	suite.ErrorIs(err, errs.ErrConflict)

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Len(stored.SkippedBy(), 1)
	suite.True(first.SkippedBy()[0].IsEqual(stored.SkippedBy()[0]))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestClaim_TwoCouriers_OnlyFirstWins() {
	ctx := context.Background()
	o := suite.newOrder(ledger.MethodCOD)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	winner, loser := kernel.NewUUID(), kernel.NewUUID()

	a, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	b, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(a.Accept(winner, time.Now().UTC()))
	suite.Require().NoError(b.Accept(loser, time.Now().UTC()))

	suite.Require().NoError(suite.repository.Claim(ctx, a))
	suite.ErrorIs(suite.repository.Claim(ctx, b), ports.ErrVersionConflict)

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.Courier())
	suite.Equal(winner, *stored.Courier())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_RatingAndNotes_RoundTrip() {
	ctx := context.Background()
	courierID := kernel.NewUUID()
	o := suite.newOrder(ledger.MethodCOD)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	at := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	suite.Require().NoError(o.Accept(courierID, at))
	suite.Require().NoError(suite.repository.Claim(ctx, o))

	loaded, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Pickup(courierID, at.Add(time.Minute)))
	suite.Require().NoError(loaded.StartNavigation(courierID, at.Add(2*time.Minute)))
	suite.Require().NoError(loaded.MarkReached(courierID, at.Add(3*time.Minute)))
	suite.Require().NoError(loaded.Complete(courierID, "left with guard", at.Add(4*time.Minute)))
	suite.Require().NoError(loaded.MarkCashCollected())
	suite.Require().NoError(loaded.Rate(4))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StageDelivered, got.Stage())
	suite.Equal(order.PaymentSuccess, got.PaymentStatus())
	suite.Equal("left with guard", got.DeliveryNotes())
	suite.Require().NotNil(got.Rating())
	suite.Equal(4, *got.Rating())
	suite.Require().NotNil(got.Milestones().DeliveredAt)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(method ledger.Method) *order.Order {
	amounts, err := order.NewAmounts(decimal.NewFromInt(999), decimal.NewFromInt(40), decimal.Zero)
	suite.Require().NoError(err)
	pickup, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1001", amounts, method, &pickup, nil)
	suite.Require().NoError(err)
	return o
}
