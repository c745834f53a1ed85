package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"

	"github.com/shopspring/decimal"
)

type PaymentRepository interface {
	Add(ctx context.Context, payment *ledger.Payment) error

	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*ledger.Payment, error)

	// SettleOutstanding moves the courier's outstanding payments among ids to
	// SETTLED in one conditional statement and returns exactly the rows it
	// changed.
	SettleOutstanding(
		ctx context.Context,
		collectorID kernel.UUID,
		ids []kernel.UUID,
		settlementID kernel.UUID,
	) ([]*ledger.Payment, error)
}

type WalletTransactionRepository interface {
	Add(ctx context.Context, tx *ledger.WalletTransaction) error

	ListByCourier(ctx context.Context, courierID kernel.UUID, limit int) ([]*ledger.WalletTransaction, error)

	// Totals returns the sums of credits and debits in the courier's log.
	Totals(ctx context.Context, courierID kernel.UUID) (credits decimal.Decimal, debits decimal.Decimal, err error)
}

type SettlementRepository interface {
	Add(ctx context.Context, settlement *ledger.Settlement) error

	// Update writes status, reference and settledAt if the stored status is
	// still from; otherwise it fails with errs.ErrConflict.
	Update(ctx context.Context, settlement *ledger.Settlement, from ledger.SettlementStatus) error

	Get(ctx context.Context, id kernel.UUID) (*ledger.Settlement, error)
}

type DeductionRepository interface {
	Add(ctx context.Context, deduction *ledger.Deduction) error

	ListByCourier(ctx context.Context, courierID kernel.UUID) ([]*ledger.Deduction, error)
}
