package ledgerrepo

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormWalletTransactionRepository is append-only: there is no update or delete.
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

func (r *GormWalletTransactionRepository) Add(ctx context.Context, tx *ledger.WalletTransaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto, err := walletTransactionFromDomain(tx)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByCourier returns the newest entries first. A non-positive limit
// returns the whole log.
func (r *GormWalletTransactionRepository) ListByCourier(
	ctx context.Context,
	courierID kernel.UUID,
	limit int,
) ([]*ledger.WalletTransaction, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID.Bytes()).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []WalletTransactionDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*ledger.WalletTransaction, 0, len(dtos))
	for _, dto := range dtos {
		t, err := walletTransactionToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, t)
	}
	return entries, nil
}

func (r *GormWalletTransactionRepository) Totals(ctx context.Context, courierID kernel.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Credits decimal.Decimal
		Debits  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = ?), 0) AS credits,
			COALESCE(SUM(amount) FILTER (WHERE direction = ?), 0) AS debits
		 FROM wallet_transactions WHERE courier_id = ?`,
		string(ledger.Credit), string(ledger.Debit), courierID.Bytes(),
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return row.Credits, row.Debits, nil
}
