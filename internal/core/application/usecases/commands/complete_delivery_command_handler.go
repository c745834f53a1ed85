package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// DefaultDeliveryIncentive is credited to the courier wallet per delivery
// unless configured otherwise.
var DefaultDeliveryIncentive = decimal.NewFromInt(50)

type CompleteDeliveryResult struct {
	Order           *order.Order
	Payment         *ledger.Payment
	Earning         decimal.Decimal
	WalletBalance   decimal.Decimal
	TotalDeliveries int
}

type CompleteDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	incentive  decimal.Decimal
}

func NewCompleteDeliveryCommandHandler(uowFactory DeliveryUoWFactory, incentive decimal.Decimal) CompleteDeliveryCommandHandler {
	if incentive.IsNegative() {
		incentive = decimal.Zero
	}
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		incentive:  incentive,
	}
}

// Handle finishes the delivery. The order, the cash payment, the courier
// counters and the wallet credit are written in one transaction; the wallet
// balance is changed by an atomic increment whose result is stored as the
// transaction's balance snapshot.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) (CompleteDeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return CompleteDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	var c *courier.Courier
	if c, err = courierRepo.Get(ctx, cmd.CourierID()); err != nil {
		return CompleteDeliveryResult{}, err
	}

	now := time.Now().UTC()
	if err = o.Complete(cmd.CourierID(), cmd.Notes(), now); err != nil {
		return CompleteDeliveryResult{}, err
	}

	method := cmd.PaymentMethod()
	if method == "" {
		method = o.PaymentMethod()
	}

	var payment *ledger.Payment
	if method == ledger.MethodCOD && cmd.AmountCollected().IsPositive() {
		payment, err = ledger.NewCODPayment(kernel.NewUUID(), o.ID(), cmd.CourierID(), cmd.AmountCollected(), now)
		if err != nil {
			return CompleteDeliveryResult{}, err
		}
		if err = uow.PaymentRepository().Add(ctx, payment); err != nil {
			return CompleteDeliveryResult{}, err
		}
		if err = o.MarkCashCollected(); err != nil {
			return CompleteDeliveryResult{}, err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return CompleteDeliveryResult{}, err
	}

	balance := c.WalletBalance()
	if h.incentive.IsPositive() {
		if balance, err = courierRepo.ApplyWalletDelta(ctx, c.ID(), h.incentive); err != nil {
			return CompleteDeliveryResult{}, err
		}

		var entry *ledger.WalletTransaction
		entry, err = ledger.NewWalletTransaction(c.ID(), ledger.Credit, ledger.SourceDelivery, h.incentive, balance,
			map[string]any{"orderId": o.ID().String(), "number": o.Number()}, now)
		if err != nil {
			return CompleteDeliveryResult{}, err
		}
		if err = uow.WalletTransactionRepository().Add(ctx, entry); err != nil {
			return CompleteDeliveryResult{}, err
		}
	}

	total, err := courierRepo.IncrementDeliveries(ctx, c.ID())
	if err != nil {
		return CompleteDeliveryResult{}, err
	}

	c.SyncWallet(balance, now)
	c.SyncDeliveries(total)
	c.FinishDelivery()
	if err = courierRepo.Update(ctx, c); err != nil {
		return CompleteDeliveryResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CompleteDeliveryResult{}, err
	}

	return CompleteDeliveryResult{
		Order:           o,
		Payment:         payment,
		Earning:         h.incentive,
		WalletBalance:   balance,
		TotalDeliveries: total,
	}, nil
}
