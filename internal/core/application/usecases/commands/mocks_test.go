package commands_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/worklog"
	"lastmile/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	args := m.Called()
	return args.Get(0).(ports.PaymentRepository)
}

func (m *MockUoW) WalletTransactionRepository() ports.WalletTransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.WalletTransactionRepository)
}

func (m *MockUoW) SettlementRepository() ports.SettlementRepository {
	args := m.Called()
	return args.Get(0).(ports.SettlementRepository)
}

func (m *MockUoW) WorkLogRepository() ports.WorkLogRepository {
	args := m.Called()
	return args.Get(0).(ports.WorkLogRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

// uowFactory hands out the same unit of work for every handler flavour.
type uowFactory struct{ uow *MockUoW }

func (f uowFactory) create() *MockUoW {
	return f.uow
}

type (
	orderUoWFactory      struct{ uowFactory }
	courierUoWFactory    struct{ uowFactory }
	assignmentUoWFactory struct{ uowFactory }
	deliveryUoWFactory   struct{ uowFactory }
	settlementUoWFactory struct{ uowFactory }
	walletUoWFactory     struct{ uowFactory }
	shiftUoWFactory      struct{ uowFactory }
	outboxUoWFactory     struct{ uowFactory }
)

func (f orderUoWFactory) Create() commands.OrderUoW           { return f.create() }
func (f courierUoWFactory) Create() commands.CourierUoW       { return f.create() }
func (f assignmentUoWFactory) Create() commands.AssignmentUoW { return f.create() }
func (f deliveryUoWFactory) Create() commands.DeliveryUoW     { return f.create() }
func (f settlementUoWFactory) Create() commands.SettlementUoW { return f.create() }
func (f walletUoWFactory) Create() commands.WalletUoW         { return f.create() }
func (f shiftUoWFactory) Create() commands.ShiftUoW           { return f.create() }
func (f outboxUoWFactory) Create() commands.OutboxUoW         { return f.create() }

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Claim(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*courier.Courier)
	return c, args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]*courier.Courier)
	return cs, args.Error(1)
}

func (m *MockCourierRepository) ListIDs(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]kernel.UUID)
	return ids, args.Error(1)
}

func (m *MockCourierRepository) ApplyWalletDelta(ctx context.Context, id kernel.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCourierRepository) SetWalletBalance(ctx context.Context, id kernel.UUID, balance decimal.Decimal) error {
	args := m.Called(ctx, id, balance)
	return args.Error(0)
}

func (m *MockCourierRepository) IncrementDeliveries(ctx context.Context, id kernel.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockCourierRepository) AddRating(ctx context.Context, id kernel.UUID, score int) (int, int, error) {
	args := m.Called(ctx, id, score)
	return args.Int(0), args.Int(1), args.Error(2)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *ledger.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*ledger.Payment, error) {
	args := m.Called(ctx, orderID)
	ps, _ := args.Get(0).([]*ledger.Payment)
	return ps, args.Error(1)
}

func (m *MockPaymentRepository) SettleOutstanding(
	ctx context.Context,
	collectorID kernel.UUID,
	ids []kernel.UUID,
	settlementID kernel.UUID,
) ([]*ledger.Payment, error) {
	args := m.Called(ctx, collectorID, ids, settlementID)
	ps, _ := args.Get(0).([]*ledger.Payment)
	return ps, args.Error(1)
}

type MockWalletTransactionRepository struct{ mock.Mock }

func (m *MockWalletTransactionRepository) Add(ctx context.Context, tx *ledger.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) ListByCourier(ctx context.Context, courierID kernel.UUID, limit int) ([]*ledger.WalletTransaction, error) {
	args := m.Called(ctx, courierID, limit)
	txs, _ := args.Get(0).([]*ledger.WalletTransaction)
	return txs, args.Error(1)
}

func (m *MockWalletTransactionRepository) Totals(ctx context.Context, courierID kernel.UUID) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, courierID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

type MockSettlementRepository struct{ mock.Mock }

func (m *MockSettlementRepository) Add(ctx context.Context, s *ledger.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) Update(ctx context.Context, s *ledger.Settlement, from ledger.SettlementStatus) error {
	args := m.Called(ctx, s, from)
	return args.Error(0)
}

func (m *MockSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*ledger.Settlement, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*ledger.Settlement)
	return s, args.Error(1)
}

type MockWorkLogRepository struct{ mock.Mock }

func (m *MockWorkLogRepository) Add(ctx context.Context, log *worklog.WorkLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockWorkLogRepository) Update(ctx context.Context, log *worklog.WorkLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockWorkLogRepository) GetOpen(ctx context.Context, courierID kernel.UUID) (*worklog.WorkLog, error) {
	args := m.Called(ctx, courierID)
	log, _ := args.Get(0).(*worklog.WorkLog)
	return log, args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, now, limit)
	msgs, _ := args.Get(0).([]ports.OutboxMessage)
	return msgs, args.Error(1)
}

func (m *MockOutboxRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockOutboxRepository) Reschedule(ctx context.Context, id string, attempts int, next time.Time, lastError string) error {
	args := m.Called(ctx, id, attempts, next, lastError)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkDead(ctx context.Context, id string, attempts int, lastError string) error {
	args := m.Called(ctx, id, attempts, lastError)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, msg ports.OutboxMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockLocationStore struct{ mock.Mock }

func (m *MockLocationStore) Save(ctx context.Context, loc ports.CourierLocation) error {
	args := m.Called(ctx, loc)
	return args.Error(0)
}

func (m *MockLocationStore) Get(ctx context.Context, courierID kernel.UUID) (*ports.CourierLocation, error) {
	args := m.Called(ctx, courierID)
	loc, _ := args.Get(0).(*ports.CourierLocation)
	return loc, args.Error(1)
}

func (m *MockLocationStore) GetMany(ctx context.Context, courierIDs []kernel.UUID) (map[kernel.UUID]ports.CourierLocation, error) {
	args := m.Called(ctx, courierIDs)
	locs, _ := args.Get(0).(map[kernel.UUID]ports.CourierLocation)
	return locs, args.Error(1)
}

var milestone = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newPendingOrder(t *testing.T, method ledger.Method, status order.PaymentStatus) *order.Order {
	t.Helper()
	return restoreOrder(t, order.State{PaymentMethod: method, PaymentStatus: status})
}

// orderAt rebuilds an order assigned to courierID in the given stage.
func orderAt(t *testing.T, stage order.Stage, courierID kernel.UUID) *order.Order {
	t.Helper()
	m := order.Milestones{}
	steps := []struct {
		stage order.Stage
		at    **time.Time
	}{
		{order.StageAccepted, &m.AcceptedAt},
		{order.StagePickedUp, &m.PickedUpAt},
		{order.StageNavigating, &m.NavigationStartedAt},
		{order.StageReached, &m.ReachedAt},
		{order.StageDelivered, &m.DeliveredAt},
	}
	for i, step := range steps {
		if step.stage > stage {
			break
		}
		at := milestone.Add(time.Duration(i) * time.Minute)
		*step.at = &at
	}
	return restoreOrder(t, order.State{CourierID: &courierID, Milestones: m})
}

func restoreOrder(t *testing.T, s order.State) *order.Order {
	t.Helper()
	s.ID = kernel.NewUUID()
	s.Number = "ORD-3003"
	s.StoredStage = order.StagePending
	if s.PaymentMethod == "" {
		s.PaymentMethod = ledger.MethodCOD
	}
	if s.PaymentStatus == "" {
		s.PaymentStatus = order.PaymentPending
	}
	amounts, err := order.NewAmounts(decimal.NewFromInt(999), decimal.NewFromInt(40), decimal.Zero)
	require.NoError(t, err)
	s.Amounts = amounts

	o, err := order.RestoreOrder(s)
	require.NoError(t, err)
	return o
}

func newCourier(t *testing.T, availability courier.Availability, balance decimal.Decimal) *courier.Courier {
	t.Helper()
	c, err := courier.RestoreCourier(kernel.NewUUID(), "Ravi", "+91-9000000001", availability, balance, 4, 18, 4, false)
	require.NoError(t, err)
	return c
}

func expectTx(ctx context.Context, uow *MockUoW, commitErr error) []*mock.Call {
	return []*mock.Call{
		uow.On("Commit", ctx).Return(commitErr).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	}
}
