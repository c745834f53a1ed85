package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrGetDeductionsQueryIsNotConstructed = errors.New(
	"GetDeductionsQuery must be created via NewGetDeductionsQuery constructor",
)

type GetDeductionsQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDeductionsQuery(courierID kernel.UUID) (GetDeductionsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetDeductionsQuery{}, err
	}
	return GetDeductionsQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeductionsQuery) Validate() error {
	return q.guard.Validate(ErrGetDeductionsQueryIsNotConstructed)
}

func (q GetDeductionsQuery) CourierID() kernel.UUID {
	return q.courierID
}
