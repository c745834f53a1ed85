package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type CreateSettlementResult struct {
	SettlementID  kernel.UUID
	Amount        decimal.Decimal
	Count         int
	WalletBalance decimal.Decimal
	OwesCompany   bool
}

type CreateSettlementCommandHandler struct {
	uowFactory SettlementUoWFactory
}

func NewCreateSettlementCommandHandler(uowFactory SettlementUoWFactory) CreateSettlementCommandHandler {
	return CreateSettlementCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle batches the courier's outstanding payments into a settlement and
// debits the wallet by their sum. Payments are selected and marked SETTLED
// by one conditional statement; ids that are not the courier's or already
// settled are dropped silently and do not count towards the amount.
func (h CreateSettlementCommandHandler) Handle(ctx context.Context, cmd CreateSettlementCommand) (CreateSettlementResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateSettlementResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateSettlementResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return CreateSettlementResult{}, err
	}

	settlementID := kernel.NewUUID()
	payments, err := uow.PaymentRepository().SettleOutstanding(ctx, c.ID(), cmd.PaymentIDs(), settlementID)
	if err != nil {
		return CreateSettlementResult{}, err
	}
	if len(payments) == 0 {
		return CreateSettlementResult{}, errs.NewObjectNotFoundError("payments", "no outstanding payments matched")
	}

	now := time.Now().UTC()
	s, err := ledger.NewSettlement(settlementID, c.ID(), payments, cmd.Method(), now)
	if err != nil {
		return CreateSettlementResult{}, err
	}
	if err = uow.SettlementRepository().Add(ctx, s); err != nil {
		return CreateSettlementResult{}, err
	}

	balance, err := h.debit(ctx, uow, c, s, now)
	if err != nil {
		return CreateSettlementResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateSettlementResult{}, err
	}

	return CreateSettlementResult{
		SettlementID:  s.ID(),
		Amount:        s.Amount(),
		Count:         len(s.PaymentIDs()),
		WalletBalance: balance,
		OwesCompany:   ledger.OwesCompany(balance),
	}, nil
}

// debit takes the settled amount off the wallet. There is no floor: a
// negative balance is money the courier owes the company.
func (h CreateSettlementCommandHandler) debit(
	ctx context.Context,
	uow SettlementUoW,
	c *courier.Courier,
	s *ledger.Settlement,
	at time.Time,
) (decimal.Decimal, error) {
	courierRepo := uow.CourierRepository()

	balance, err := courierRepo.ApplyWalletDelta(ctx, c.ID(), s.Amount().Neg())
	if err != nil {
		return decimal.Zero, err
	}

	entry, err := ledger.NewWalletTransaction(c.ID(), ledger.Debit, ledger.SourceSettlement, s.Amount(), balance,
		map[string]any{"settlementId": s.ID().String(), "paymentCount": len(s.PaymentIDs())}, at)
	if err != nil {
		return decimal.Zero, err
	}
	if err = uow.WalletTransactionRepository().Add(ctx, entry); err != nil {
		return decimal.Zero, err
	}

	c.SyncWallet(balance, at)
	if err = courierRepo.Update(ctx, c); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}
