package order_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, method ledger.Method) *order.Order {
	t.Helper()
	amounts, err := order.NewAmounts(decimal.NewFromInt(999), decimal.NewFromInt(40), decimal.Zero)
	require.NoError(t, err)
	pickup, _ := kernel.NewGeoPoint(12.9716, 77.5946)
	drop, _ := kernel.NewGeoPoint(12.9352, 77.6245)

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1001", amounts, method, &pickup, &drop)
	require.NoError(t, err)
	return o
}

func acceptedOrder(t *testing.T, courierID kernel.UUID) *order.Order {
	t.Helper()
	o := newOrder(t, ledger.MethodCOD)
	require.NoError(t, o.Accept(courierID, now))
	o.ClearDomainEvents()
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending without courier", func(t *testing.T) {
		o := newOrder(t, ledger.MethodCOD)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.StagePending, o.Stage())
		assert.Equal(t, "Pending", o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Nil(t, o.Courier())
		assert.Empty(t, o.SkippedBy())
		assert.Empty(t, o.DomainEvents())
		assert.True(t, o.Amounts().GrandTotal().Equal(decimal.NewFromInt(999)))
	})

	t.Run("collects every validation error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, " ", order.Amounts{}, ledger.Method("BARTER"), nil, nil)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestNewAmounts_RejectsNegative(t *testing.T) {
	_, err := order.NewAmounts(decimal.NewFromInt(-1), decimal.Zero, decimal.NewFromInt(-2))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "grandTotal")
	assert.Contains(t, err.Error(), "discount")
}

func TestOrder_Accept(t *testing.T) {
	courierID := kernel.NewUUID()

	t.Run("claims open order", func(t *testing.T) {
		o := newOrder(t, ledger.MethodCOD)

		require.NoError(t, o.Accept(courierID, now))

		assert.Equal(t, order.StageAccepted, o.Stage())
		assert.Equal(t, "On the way", o.Status())
		assert.True(t, o.IsAssignedTo(courierID))
		require.NotNil(t, o.Milestones().AcceptedAt)
		assert.Equal(t, now, *o.Milestones().AcceptedAt)
		events := o.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, order.EventAccepted, events[0].Name())
		assert.Equal(t, courierID.String(), events[0].Payload()["courierId"])
	})

	t.Run("second courier gets conflict", func(t *testing.T) {
		o := acceptedOrder(t, courierID)

		err := o.Accept(kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "already assigned")
		assert.True(t, o.IsAssignedTo(courierID))
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("same courier accepting again is a conflict too", func(t *testing.T) {
		o := acceptedOrder(t, courierID)

		require.ErrorIs(t, o.Accept(courierID, now), errs.ErrConflict)
	})

	t.Run("rejects nil courier", func(t *testing.T) {
		o := newOrder(t, ledger.MethodCOD)

		require.ErrorIs(t, o.Accept(kernel.UUID{}, now), kernel.ErrUUIDIsNotConstructed)
		assert.Nil(t, o.Courier())
	})
}

func TestOrder_AssignTo(t *testing.T) {
	courierID := kernel.NewUUID()

	t.Run("requires completed payment", func(t *testing.T) {
		o := newOrder(t, ledger.MethodCOD)

		err := o.AssignTo(courierID, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "payment is not completed")
		assert.Nil(t, o.Courier())
	})

	t.Run("assigns prepaid order", func(t *testing.T) {
		o := restore(t, order.State{PaymentStatus: order.PaymentSuccess, PaymentMethod: ledger.MethodDigital})

		require.NoError(t, o.AssignTo(courierID, now))

		assert.Equal(t, order.StageAccepted, o.Stage())
		assert.True(t, o.IsAssignedTo(courierID))
		require.Len(t, o.DomainEvents(), 1)
		assert.Equal(t, order.EventAssigned, o.DomainEvents()[0].Name())
	})

	t.Run("prepaid but already taken", func(t *testing.T) {
		o := restore(t, order.State{PaymentStatus: order.PaymentSuccess, PaymentMethod: ledger.MethodDigital})
		require.NoError(t, o.Accept(kernel.NewUUID(), now))

		require.ErrorIs(t, o.AssignTo(courierID, now), errs.ErrConflict)
	})
}

func TestOrder_Skip(t *testing.T) {
	courierID := kernel.NewUUID()
	o := newOrder(t, ledger.MethodCOD)

	changed, err := o.Skip(courierID, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = o.Skip(courierID, now)
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Len(t, o.SkippedBy(), 1)
	assert.True(t, o.HasSkipped(courierID))
	assert.Len(t, o.DomainEvents(), 1)

	require.NoError(t, o.Accept(kernel.NewUUID(), now))
	_, err = o.Skip(kernel.NewUUID(), now)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestOrder_Lifecycle(t *testing.T) {
	courierID := kernel.NewUUID()
	o := acceptedOrder(t, courierID)

	require.NoError(t, o.Pickup(courierID, now.Add(5*time.Minute)))
	assert.Equal(t, order.StagePickedUp, o.Stage())
	assert.Equal(t, "On the way", o.Status())

	require.NoError(t, o.StartNavigation(courierID, now.Add(6*time.Minute)))
	assert.Equal(t, "Out for delivery", o.Status())

	require.NoError(t, o.MarkReached(courierID, now.Add(20*time.Minute)))
	assert.Equal(t, "Your Destination", o.Status())

	require.NoError(t, o.Complete(courierID, "  left with guard  ", now.Add(22*time.Minute)))
	assert.Equal(t, order.StageDelivered, o.Stage())
	assert.Equal(t, "Delivered", o.Status())
	assert.Equal(t, "left with guard", o.DeliveryNotes())
	require.NotNil(t, o.Milestones().DeliveredAt)

	names := make([]string, 0)
	for _, e := range o.DomainEvents() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{order.EventPickedUp, order.EventNavigationStarted, order.EventReached, order.EventDelivered}, names)

	delivered := o.Milestones()
	for _, op := range []func() error{
		func() error { return o.Pickup(courierID, now.Add(time.Hour)) },
		func() error { return o.StartNavigation(courierID, now.Add(time.Hour)) },
		func() error { return o.MarkReached(courierID, now.Add(time.Hour)) },
		func() error { return o.Complete(courierID, "again", now.Add(time.Hour)) },
	} {
		require.ErrorIs(t, op(), errs.ErrConflict)
	}
	assert.Equal(t, delivered, o.Milestones())
	assert.Equal(t, "left with guard", o.DeliveryNotes())
}

func TestOrder_LifecycleGuards(t *testing.T) {
	courierID := kernel.NewUUID()

	t.Run("pickup before acceptance is forbidden", func(t *testing.T) {
		o := newOrder(t, ledger.MethodCOD)

		require.ErrorIs(t, o.Pickup(courierID, now), errs.ErrForbidden)
		assert.Equal(t, order.StagePending, o.Stage())
	})

	t.Run("other courier is forbidden even when stage is wrong", func(t *testing.T) {
		o := acceptedOrder(t, courierID)

		require.ErrorIs(t, o.Complete(kernel.NewUUID(), "", now), errs.ErrForbidden)
	})

	t.Run("out of order step is a conflict", func(t *testing.T) {
		o := acceptedOrder(t, courierID)

		err := o.MarkReached(courierID, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Contains(t, err.Error(), "cannot move from accepted to reached")
		assert.Nil(t, o.Milestones().ReachedAt)
	})
}

func TestOrder_MarkPrepaid(t *testing.T) {
	cod := newOrder(t, ledger.MethodCOD)
	require.ErrorIs(t, cod.MarkPrepaid(), errs.ErrConflict)
	assert.Equal(t, order.PaymentPending, cod.PaymentStatus())

	digital := newOrder(t, ledger.MethodDigital)
	require.NoError(t, digital.MarkPrepaid())
	assert.Equal(t, order.PaymentSuccess, digital.PaymentStatus())
}

func TestOrder_MarkCashCollected(t *testing.T) {
	courierID := kernel.NewUUID()
	o := acceptedOrder(t, courierID)

	require.ErrorIs(t, o.MarkCashCollected(), errs.ErrConflict)

	require.NoError(t, o.Pickup(courierID, now))
	require.NoError(t, o.StartNavigation(courierID, now))
	require.NoError(t, o.MarkReached(courierID, now))
	require.NoError(t, o.Complete(courierID, "", now))
	require.NoError(t, o.MarkCashCollected())
	assert.Equal(t, order.PaymentSuccess, o.PaymentStatus())
}

func TestOrder_Rate(t *testing.T) {
	courierID := kernel.NewUUID()
	delivered := restore(t, order.State{
		CourierID:  &courierID,
		Milestones: order.Milestones{AcceptedAt: ts(1), PickedUpAt: ts(2), NavigationStartedAt: ts(3), ReachedAt: ts(4), DeliveredAt: ts(5)},
	})

	require.ErrorIs(t, delivered.Rate(0), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, delivered.Rate(6), errs.ErrValueIsOutOfRange)
	require.NoError(t, delivered.Rate(4))
	require.NotNil(t, delivered.Rating())
	assert.Equal(t, 4, *delivered.Rating())
	require.ErrorIs(t, delivered.Rate(5), errs.ErrConflict)

	open := newOrder(t, ledger.MethodCOD)
	require.ErrorIs(t, open.Rate(5), errs.ErrConflict)
}

func TestOrder_CanBeViewedBy(t *testing.T) {
	courierID := kernel.NewUUID()
	stranger := kernel.NewUUID()

	open := newOrder(t, ledger.MethodCOD)
	assert.True(t, open.CanBeViewedBy(stranger))

	taken := acceptedOrder(t, courierID)
	assert.True(t, taken.CanBeViewedBy(courierID))
	assert.False(t, taken.CanBeViewedBy(stranger))
}

func restore(t *testing.T, s order.State) *order.Order {
	t.Helper()
	s.ID = kernel.NewUUID()
	if s.Number == "" {
		s.Number = "ORD-2002"
	}
	if s.PaymentMethod == "" {
		s.PaymentMethod = ledger.MethodCOD
	}
	if s.PaymentStatus == "" {
		s.PaymentStatus = order.PaymentPending
	}
	if s.StoredStage == order.StageUnknown {
		s.StoredStage = order.StagePending
	}
	o, err := order.RestoreOrder(s)
	require.NoError(t, err)
	return o
}

func TestRestoreOrder(t *testing.T) {
	courierID := kernel.NewUUID()

	t.Run("stage comes from milestones not the stored value", func(t *testing.T) {
		o := restore(t, order.State{
			StoredStage: order.StagePending,
			CourierID:   &courierID,
			Milestones:  order.Milestones{AcceptedAt: ts(1), PickedUpAt: ts(2)},
			Version:     7,
		})

		assert.Equal(t, order.StagePickedUp, o.Stage())
		assert.Equal(t, int64(7), o.Version())
		assert.NotNil(t, o.SkippedBy())
	})

	t.Run("accepted stage requires a courier", func(t *testing.T) {
		_, err := order.RestoreOrder(order.State{
			ID:            kernel.NewUUID(),
			Number:        "ORD-1",
			StoredStage:   order.StagePending,
			Milestones:    order.Milestones{AcceptedAt: ts(1)},
			PaymentMethod: ledger.MethodCOD,
			PaymentStatus: order.PaymentPending,
		})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("shipped order stays shipped", func(t *testing.T) {
		o := restore(t, order.State{StoredStage: order.StageProductShipped})

		assert.Equal(t, order.StageProductShipped, o.Stage())
		assert.Equal(t, "Product shipped", o.Status())
		require.NoError(t, o.Accept(courierID, now))
	})
}
