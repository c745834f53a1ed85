package queries

import (
	"context"
	"fmt"
	"net/url"

	"lastmile/internal/core/domain/model/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultUPICurrency = "INR"

// UPIPayee is the company account couriers pay collected cash into.
type UPIPayee struct {
	VPA      string
	Name     string
	Currency string
}

type GetPayableQRQueryResponse struct {
	AmountToPay decimal.Decimal
	UPIURI      string
}

type GetPayableQRQueryHandler struct {
	db    *gorm.DB
	payee UPIPayee
}

func NewGetPayableQRQueryHandler(db *gorm.DB, payee UPIPayee) GetPayableQRQueryHandler {
	if payee.Currency == "" {
		payee.Currency = DefaultUPICurrency
	}
	return GetPayableQRQueryHandler{db: db, payee: payee}
}

// Handle computes the courier's outstanding payable as the cash still held
// (COD payments in SUCCESS or PENDING) minus what was already settled,
// floored at zero.
func (h GetPayableQRQueryHandler) Handle(ctx context.Context, query GetPayableQRQuery) (GetPayableQRQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPayableQRQueryResponse{}, err
	}
	if err := courierExists(ctx, h.db, query.CourierID()); err != nil {
		return GetPayableQRQueryResponse{}, err
	}

	var totals struct {
		Held    decimal.Decimal
		Settled decimal.Decimal
	}
	if err := h.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE method = ? AND status IN ?), 0) AS held,
			COALESCE(SUM(amount) FILTER (WHERE status = ?), 0) AS settled
		FROM payments
		WHERE collector_id = ?
	`,
		string(ledger.MethodCOD),
		[]string{string(ledger.PaymentSuccess), string(ledger.PaymentPending)},
		string(ledger.PaymentSettled),
		query.CourierID().Bytes(),
	).Scan(&totals).Error; err != nil {
		return GetPayableQRQueryResponse{}, err
	}

	amount := decimal.Max(decimal.Zero, totals.Held.Sub(totals.Settled))
	return GetPayableQRQueryResponse{
		AmountToPay: amount,
		UPIURI:      h.uri(amount, "COD payable "+query.CourierID().String()),
	}, nil
}

func (h GetPayableQRQueryHandler) uri(amount decimal.Decimal, note string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=%s&tn=%s",
		url.QueryEscape(h.payee.VPA),
		url.QueryEscape(h.payee.Name),
		amount.StringFixed(2),
		url.QueryEscape(h.payee.Currency),
		url.QueryEscape(note),
	)
}
