package queries

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EarningOrder struct {
	OrderID     kernel.UUID
	Number      string
	DeliveredAt time.Time
	Earning     decimal.Decimal
}

type GetEarningsQueryResponse struct {
	Period          services.Period
	From            time.Time
	To              time.Time
	TotalEarnings   decimal.Decimal
	TotalDeliveries int
	Orders          []EarningOrder
}

type GetEarningsQueryHandler struct {
	db         *gorm.DB
	calculator services.EarningsCalculator
	now        func() time.Time
}

func NewGetEarningsQueryHandler(db *gorm.DB, calculator services.EarningsCalculator) *GetEarningsQueryHandler {
	return &GetEarningsQueryHandler{db: db, calculator: calculator, now: time.Now}
}

func (h *GetEarningsQueryHandler) Handle(ctx context.Context, query GetEarningsQuery) (GetEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetEarningsQueryResponse{}, err
	}
	if err := courierExists(ctx, h.db, query.CourierID()); err != nil {
		return GetEarningsQueryResponse{}, err
	}

	from, to := h.calculator.Window(query.Period(), h.now())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, number, delivered_at
		FROM orders
		WHERE courier_id = ? AND delivered_at >= ? AND delivered_at < ?
		ORDER BY delivered_at DESC, id
	`, query.CourierID().Bytes(), from, to).Rows()
	if err != nil {
		return GetEarningsQueryResponse{}, err
	}
	defer rows.Close()

	orders := make([]EarningOrder, 0)
	for rows.Next() {
		var item EarningOrder
		var id uuid.UUID
		if err = rows.Scan(&id, &item.Number, &item.DeliveredAt); err != nil {
			return GetEarningsQueryResponse{}, err
		}
		if item.OrderID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return GetEarningsQueryResponse{}, err
		}
		item.Earning = h.calculator.RatePerDelivery()
		orders = append(orders, item)
	}
	if err = rows.Err(); err != nil {
		return GetEarningsQueryResponse{}, err
	}

	return GetEarningsQueryResponse{
		Period:          query.Period(),
		From:            from,
		To:              to,
		TotalEarnings:   h.calculator.Total(len(orders)),
		TotalDeliveries: len(orders),
		Orders:          orders,
	}, nil
}
