package queries

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentHistoryItem struct {
	ID          kernel.UUID
	Amount      decimal.Decimal
	Method      string
	Status      string
	CollectedAt time.Time
}

type GetOrderPaymentSummaryQueryResponse struct {
	OrderID       kernel.UUID
	Number        string
	GrandTotal    decimal.Decimal
	Collected     decimal.Decimal
	Pending       decimal.Decimal
	PaymentMethod string
	PaymentStatus string
	History       []PaymentHistoryItem
}

type GetOrderPaymentSummaryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderPaymentSummaryQueryHandler(db *gorm.DB) GetOrderPaymentSummaryQueryHandler {
	return GetOrderPaymentSummaryQueryHandler{db: db}
}

// Handle counts SUCCESS and SETTLED payments as collected. Pending is the
// rest of the grand total and never goes below zero.
func (h GetOrderPaymentSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderPaymentSummaryQuery,
) (GetOrderPaymentSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderPaymentSummaryQueryResponse{}, err
	}

	var header struct {
		Number        string
		GrandTotal    decimal.Decimal
		PaymentMethod string
		PaymentStatus string
	}
	result := h.db.WithContext(ctx).Raw(
		`SELECT number, grand_total, payment_method, payment_status FROM orders WHERE id = ?`,
		query.OrderID().Bytes(),
	).Scan(&header)
	if result.Error != nil {
		return GetOrderPaymentSummaryQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderPaymentSummaryQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, amount, method, status, collected_at
		FROM payments
		WHERE order_id = ?
		ORDER BY collected_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderPaymentSummaryQueryResponse{}, err
	}
	defer rows.Close()

	history := make([]PaymentHistoryItem, 0)
	collected := decimal.Zero
	for rows.Next() {
		var item PaymentHistoryItem
		var id uuid.UUID
		if err = rows.Scan(&id, &item.Amount, &item.Method, &item.Status, &item.CollectedAt); err != nil {
			return GetOrderPaymentSummaryQueryResponse{}, err
		}
		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return GetOrderPaymentSummaryQueryResponse{}, err
		}

		switch ledger.PaymentStatus(item.Status) {
		case ledger.PaymentSuccess, ledger.PaymentSettled:
			collected = collected.Add(item.Amount)
		}
		history = append(history, item)
	}
	if err = rows.Err(); err != nil {
		return GetOrderPaymentSummaryQueryResponse{}, err
	}

	return GetOrderPaymentSummaryQueryResponse{
		OrderID:       query.OrderID(),
		Number:        header.Number,
		GrandTotal:    header.GrandTotal,
		Collected:     collected,
		Pending:       decimal.Max(decimal.Zero, header.GrandTotal.Sub(collected)),
		PaymentMethod: header.PaymentMethod,
		PaymentStatus: header.PaymentStatus,
		History:       history,
	}, nil
}
