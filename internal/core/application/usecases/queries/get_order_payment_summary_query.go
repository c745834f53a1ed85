package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetOrderPaymentSummaryQueryIsNotConstructed = errors.New(
	"GetOrderPaymentSummaryQuery must be created via NewGetOrderPaymentSummaryQuery constructor",
)

type GetOrderPaymentSummaryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderPaymentSummaryQuery(orderID kernel.UUID) (GetOrderPaymentSummaryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderPaymentSummaryQuery{}, err
	}
	return GetOrderPaymentSummaryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderPaymentSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderPaymentSummaryQueryIsNotConstructed)
}

func (q GetOrderPaymentSummaryQuery) OrderID() kernel.UUID {
	return q.orderID
}
