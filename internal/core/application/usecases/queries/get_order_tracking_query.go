package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
	"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
)

// GetOrderTrackingQuery asks for the map and timeline view of one order as
// seen by a courier.
type GetOrderTrackingQuery struct {
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderTrackingQuery(orderID kernel.UUID, courierID kernel.UUID) (GetOrderTrackingQuery, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return GetOrderTrackingQuery{}, err
	}
	return GetOrderTrackingQuery{
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

func (q GetOrderTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderTrackingQuery) CourierID() kernel.UUID {
	return q.courierID
}
