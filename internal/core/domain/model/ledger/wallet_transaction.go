package ledger

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrWalletTransactionIsNotConstructed = errors.New(
	"WalletTransaction must be created via NewWalletTransaction or RestoreWalletTransaction")

// WalletTransaction is an append-only ledger entry. Amount is always
// positive; Direction carries the sign. BalanceAfter is the wallet balance
// right after this entry was applied.
type WalletTransaction struct {
	id           kernel.UUID
	courierID    kernel.UUID
	direction    Direction
	source       Source
	amount       decimal.Decimal
	balanceAfter decimal.Decimal
	metadata     map[string]any
	createdAt    time.Time

	isConstructed bool
}

func NewWalletTransaction(
	courierID kernel.UUID,
	direction Direction,
	source Source,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
	metadata map[string]any,
	at time.Time,
) (*WalletTransaction, error) {
	return RestoreWalletTransaction(kernel.NewUUID(), courierID, direction, source, amount, balanceAfter, metadata, at.UTC())
}

func RestoreWalletTransaction(
	id kernel.UUID,
	courierID kernel.UUID,
	direction Direction,
	source Source,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
	metadata map[string]any,
	createdAt time.Time,
) (*WalletTransaction, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}

	var amountErr error
	if !amount.IsPositive() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}

	if err := errors.Join(
		id.Validate(),
		courierID.Validate(),
		direction.Validate(),
		source.Validate(),
		amountErr,
	); err != nil {
		return nil, err
	}

	return &WalletTransaction{
		id:            id,
		courierID:     courierID,
		direction:     direction,
		source:        source,
		amount:        amount,
		balanceAfter:  balanceAfter,
		metadata:      metadata,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func (t *WalletTransaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrWalletTransactionIsNotConstructed
	}
	return nil
}

func (t *WalletTransaction) ID() kernel.UUID {
	return t.id
}

func (t *WalletTransaction) CourierID() kernel.UUID {
	return t.courierID
}

func (t *WalletTransaction) Direction() Direction {
	return t.direction
}

func (t *WalletTransaction) Source() Source {
	return t.source
}

func (t *WalletTransaction) Amount() decimal.Decimal {
	return t.amount
}

func (t *WalletTransaction) BalanceAfter() decimal.Decimal {
	return t.balanceAfter
}

func (t *WalletTransaction) Metadata() map[string]any {
	return t.metadata
}

func (t *WalletTransaction) CreatedAt() time.Time {
	return t.createdAt
}

// SignedAmount is positive for credits and negative for debits.
func (t *WalletTransaction) SignedAmount() decimal.Decimal {
	if t.direction == Debit {
		return t.amount.Neg()
	}
	return t.amount
}

// Balance folds a transaction log into the balance it implies:
// sum of credits minus sum of debits.
func Balance(entries []*WalletTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.SignedAmount())
	}
	return total
}

// OwesCompany reports whether a wallet balance means the courier holds
// company money.
func OwesCompany(balance decimal.Decimal) bool {
	return balance.IsNegative()
}
