package commands_test

import (
	"testing"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type deliveryFixture struct {
	uow      *MockUoW
	orders   *MockOrderRepository
	couriers *MockCourierRepository
	payments *MockPaymentRepository
	wallet   *MockWalletTransactionRepository
}

func newDeliveryFixture() deliveryFixture {
	f := deliveryFixture{
		uow:      new(MockUoW),
		orders:   new(MockOrderRepository),
		couriers: new(MockCourierRepository),
		payments: new(MockPaymentRepository),
		wallet:   new(MockWalletTransactionRepository),
	}
	f.uow.On("OrderRepository").Return(f.orders)
	f.uow.On("CourierRepository").Return(f.couriers)
	f.uow.On("PaymentRepository").Return(f.payments)
	f.uow.On("WalletTransactionRepository").Return(f.wallet)
	return f
}

func (f deliveryFixture) handler(incentive decimal.Decimal) commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(deliveryUoWFactory{uowFactory{f.uow}}, incentive)
}

func TestNewCompleteDeliveryCommand_RejectsNegativeAmount(t *testing.T) {
	_, err := commands.NewCompleteDeliveryCommand(kernel.NewUUID(), kernel.NewUUID(), ledger.MethodCOD, decimal.NewFromInt(-1), "")

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewCompleteDeliveryCommand_RejectsUnknownMethod(t *testing.T) {
	_, err := commands.NewCompleteDeliveryCommand(kernel.NewUUID(), kernel.NewUUID(), ledger.Method("CHEQUE"), decimal.Zero, "")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCompleteDeliveryCommandHandler_Handle_CashOnDelivery(t *testing.T) {
	ctx := t.Context()
	c := newCourier(t, courier.OnDelivery, decimal.NewFromInt(100))
	o := orderAt(t, order.StageReached, c.ID())
	cmd, err := commands.NewCompleteDeliveryCommand(o.ID(), c.ID(), ledger.MethodCOD, decimal.NewFromInt(999), " left at door ")
	require.NoError(t, err)

	f := newDeliveryFixture()
	var entry *ledger.WalletTransaction
	var payment *ledger.Payment
	calls := []*mock.Call{
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.couriers.On("Get", ctx, c.ID()).Return(c, nil).Once(),
		f.payments.On("Add", ctx, mock.AnythingOfType("*ledger.Payment")).Return(nil).Once().
			Run(func(args mock.Arguments) { payment = args.Get(1).(*ledger.Payment) }),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.couriers.On("ApplyWalletDelta", ctx, c.ID(), decimal.NewFromInt(50)).Return(decimal.NewFromInt(150), nil).Once(),
		f.wallet.On("Add", ctx, mock.AnythingOfType("*ledger.WalletTransaction")).Return(nil).Once().
			Run(func(args mock.Arguments) { entry = args.Get(1).(*ledger.WalletTransaction) }),
		f.couriers.On("IncrementDeliveries", ctx, c.ID()).Return(5, nil).Once(),
		f.couriers.On("Update", ctx, c).Return(nil).Once(),
	}
	mock.InOrder(append(calls, expectTx(ctx, f.uow, nil)...)...)

	result, err := f.handler(commands.DefaultDeliveryIncentive).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StageDelivered, result.Order.Stage())
	assert.Equal(t, "left at door", result.Order.DeliveryNotes())
	assert.Equal(t, order.PaymentSuccess, result.Order.PaymentStatus())
	assert.NotNil(t, result.Order.Milestones().DeliveredAt)

	require.NotNil(t, result.Payment)
	assert.Same(t, payment, result.Payment)
	assert.True(t, result.Payment.Amount().Equal(decimal.NewFromInt(999)))
	assert.Equal(t, ledger.PaymentSuccess, result.Payment.Status())
	assert.True(t, result.Payment.IsCollectedBy(c.ID()))

	require.NotNil(t, entry)
	assert.Equal(t, ledger.Credit, entry.Direction())
	assert.Equal(t, ledger.SourceDelivery, entry.Source())
	assert.True(t, entry.Amount().Equal(decimal.NewFromInt(50)))
	assert.True(t, entry.BalanceAfter().Equal(decimal.NewFromInt(150)))
	assert.Equal(t, o.ID().String(), entry.Metadata()["orderId"])

	assert.True(t, result.Earning.Equal(decimal.NewFromInt(50)))
	assert.True(t, result.WalletBalance.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 5, result.TotalDeliveries)
	assert.Equal(t, courier.Available, c.Availability())
	assert.True(t, c.WalletBalance().Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 5, c.TotalDeliveries())

	f.uow.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.couriers.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.wallet.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_DigitalCreatesNoPayment(t *testing.T) {
	ctx := t.Context()
	c := newCourier(t, courier.OnDelivery, decimal.Zero)
	o := orderAt(t, order.StageReached, c.ID())
	cmd, _ := commands.NewCompleteDeliveryCommand(o.ID(), c.ID(), ledger.MethodDigital, decimal.NewFromInt(999), "")

	f := newDeliveryFixture()
	calls := []*mock.Call{
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.couriers.On("Get", ctx, c.ID()).Return(c, nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.couriers.On("ApplyWalletDelta", ctx, c.ID(), decimal.NewFromInt(50)).Return(decimal.NewFromInt(50), nil).Once(),
		f.wallet.On("Add", ctx, mock.Anything).Return(nil).Once(),
		f.couriers.On("IncrementDeliveries", ctx, c.ID()).Return(1, nil).Once(),
		f.couriers.On("Update", ctx, c).Return(nil).Once(),
	}
	mock.InOrder(append(calls, expectTx(ctx, f.uow, nil)...)...)

	result, err := f.handler(commands.DefaultDeliveryIncentive).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Nil(t, result.Payment)
	assert.Equal(t, order.PaymentPending, result.Order.PaymentStatus())
	f.payments.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCompleteDeliveryCommandHandler_Handle_ZeroIncentiveWritesNoTransaction(t *testing.T) {
	ctx := t.Context()
	c := newCourier(t, courier.OnDelivery, decimal.NewFromInt(20))
	o := orderAt(t, order.StageReached, c.ID())
	cmd, _ := commands.NewCompleteDeliveryCommand(o.ID(), c.ID(), "", decimal.Zero, "")

	f := newDeliveryFixture()
	calls := []*mock.Call{
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.couriers.On("Get", ctx, c.ID()).Return(c, nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.couriers.On("IncrementDeliveries", ctx, c.ID()).Return(5, nil).Once(),
		f.couriers.On("Update", ctx, c).Return(nil).Once(),
	}
	mock.InOrder(append(calls, expectTx(ctx, f.uow, nil)...)...)

	result, err := f.handler(decimal.Zero).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.WalletBalance.Equal(decimal.NewFromInt(20)))
	assert.True(t, result.Earning.IsZero())
	f.couriers.AssertNotCalled(t, "ApplyWalletDelta", mock.Anything, mock.Anything, mock.Anything)
	f.wallet.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCompleteDeliveryCommandHandler_Handle_Guards(t *testing.T) {
	t.Run("another courier is forbidden", func(t *testing.T) {
		ctx := t.Context()
		owner := newCourier(t, courier.OnDelivery, decimal.Zero)
		intruder := newCourier(t, courier.Available, decimal.Zero)
		o := orderAt(t, order.StageReached, owner.ID())
		cmd, _ := commands.NewCompleteDeliveryCommand(o.ID(), intruder.ID(), ledger.MethodCOD, decimal.NewFromInt(999), "")

		f := newDeliveryFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.couriers.On("Get", ctx, intruder.ID()).Return(intruder, nil).Once()

		_, err := f.handler(commands.DefaultDeliveryIncentive).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		f.payments.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("delivered order stays untouched", func(t *testing.T) {
		ctx := t.Context()
		c := newCourier(t, courier.Available, decimal.Zero)
		o := orderAt(t, order.StageDelivered, c.ID())
		deliveredAt := *o.Milestones().DeliveredAt
		cmd, _ := commands.NewCompleteDeliveryCommand(o.ID(), c.ID(), ledger.MethodCOD, decimal.NewFromInt(999), "again")

		f := newDeliveryFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		f.couriers.On("Get", ctx, c.ID()).Return(c, nil).Once()

		_, err := f.handler(commands.DefaultDeliveryIncentive).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, deliveredAt, *o.Milestones().DeliveredAt)
		assert.Empty(t, o.DeliveryNotes())
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}
