package ledger_test

import (
	"testing"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWalletTransaction(t *testing.T) {
	courierID := kernel.NewUUID()

	t.Run("credit for delivery", func(t *testing.T) {
		tx, err := ledger.NewWalletTransaction(courierID, ledger.Credit, ledger.SourceDelivery,
			decimal.NewFromInt(50), decimal.NewFromInt(50), map[string]any{"orderId": "o-1"}, collectedAt)

		require.NoError(t, err)
		require.NoError(t, tx.Validate())
		assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(50)))
		assert.Equal(t, "o-1", tx.Metadata()["orderId"])
		assert.Equal(t, collectedAt, tx.CreatedAt())
	})

	t.Run("debit carries negative sign and may leave a negative balance", func(t *testing.T) {
		tx, err := ledger.NewWalletTransaction(courierID, ledger.Debit, ledger.SourceSettlement,
			decimal.NewFromInt(999), decimal.NewFromInt(-949), nil, collectedAt)

		require.NoError(t, err)
		assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(-999)))
		assert.True(t, tx.BalanceAfter().IsNegative())
		assert.NotNil(t, tx.Metadata())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := ledger.NewWalletTransaction(courierID, ledger.Direction("SIDEWAYS"), ledger.Source("GIFT"),
			decimal.Zero, decimal.Zero, nil, collectedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "direction")
		assert.Contains(t, err.Error(), "source")
		assert.Contains(t, err.Error(), "amount")
	})
}

func TestBalance(t *testing.T) {
	courierID := kernel.NewUUID()
	mk := func(d ledger.Direction, s ledger.Source, amount int64) *ledger.WalletTransaction {
		tx, err := ledger.NewWalletTransaction(courierID, d, s, decimal.NewFromInt(amount), decimal.Zero, nil, collectedAt)
		require.NoError(t, err)
		return tx
	}

	entries := []*ledger.WalletTransaction{
		mk(ledger.Credit, ledger.SourceDelivery, 50),
		mk(ledger.Credit, ledger.SourceDelivery, 50),
		mk(ledger.Debit, ledger.SourceSettlement, 999),
		mk(ledger.Credit, ledger.SourceAdjustment, 1),
	}

	balance := ledger.Balance(entries)

	assert.True(t, balance.Equal(decimal.NewFromInt(-898)))
	assert.True(t, ledger.OwesCompany(balance))
	assert.False(t, ledger.OwesCompany(decimal.Zero))
	assert.True(t, ledger.Balance(nil).IsZero())
}
