package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetPayableQRQueryIsNotConstructed = errors.New(
	"GetPayableQRQuery must be created via NewGetPayableQRQuery constructor",
)

type GetPayableQRQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPayableQRQuery(courierID kernel.UUID) (GetPayableQRQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetPayableQRQuery{}, err
	}
	return GetPayableQRQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPayableQRQuery) Validate() error {
	return q.guard.Validate(ErrGetPayableQRQueryIsNotConstructed)
}

func (q GetPayableQRQuery) CourierID() kernel.UUID {
	return q.courierID
}
