package queries

import (
	"context"
	"database/sql"
	"errors"
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WalletTransactionItem struct {
	ID           kernel.UUID
	Direction    string
	Source       string
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Metadata     map[string]any
	CreatedAt    time.Time
}

type GetWalletQueryResponse struct {
	CourierID    kernel.UUID
	Balance      decimal.Decimal
	OwesCompany  bool
	Transactions []WalletTransactionItem
}

type GetWalletQueryHandler struct {
	db *gorm.DB
}

func NewGetWalletQueryHandler(db *gorm.DB) GetWalletQueryHandler {
	return GetWalletQueryHandler{db: db}
}

func (h GetWalletQueryHandler) Handle(ctx context.Context, query GetWalletQuery) (GetWalletQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWalletQueryResponse{}, err
	}

	var balance decimal.Decimal
	err := h.db.WithContext(ctx).Raw(
		`SELECT wallet_balance FROM couriers WHERE id = ? AND deleted = false`,
		query.CourierID().Bytes(),
	).Row().Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return GetWalletQueryResponse{}, errs.NewObjectNotFoundError("courier", query.CourierID().String())
	}
	if err != nil {
		return GetWalletQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, direction, source, amount, balance_after, metadata, created_at
		FROM wallet_transactions
		WHERE courier_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, query.CourierID().Bytes(), WalletHistoryLimit).Rows()
	if err != nil {
		return GetWalletQueryResponse{}, err
	}
	defer rows.Close()

	transactions := make([]WalletTransactionItem, 0)
	for rows.Next() {
		var (
			item     WalletTransactionItem
			rawID    uuid.UUID
			metadata datatypes.JSON
		)
		if err = rows.Scan(
			&rawID, &item.Direction, &item.Source, &item.Amount, &item.BalanceAfter, &metadata, &item.CreatedAt,
		); err != nil {
			return GetWalletQueryResponse{}, err
		}
		if item.ID, err = kernel.UUIDFromBytes(rawID[:]); err != nil {
			return GetWalletQueryResponse{}, err
		}
		if len(metadata) > 0 {
			if err = json.Unmarshal(metadata, &item.Metadata); err != nil {
				return GetWalletQueryResponse{}, err
			}
		}
		transactions = append(transactions, item)
	}
	if err = rows.Err(); err != nil {
		return GetWalletQueryResponse{}, err
	}

	return GetWalletQueryResponse{
		CourierID:    query.CourierID(),
		Balance:      balance,
		OwesCompany:  ledger.OwesCompany(balance),
		Transactions: transactions,
	}, nil
}
