package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/pkg/guard"
)

var ErrGetEarningsQueryIsNotConstructed = errors.New(
	"GetEarningsQuery must be created via NewGetEarningsQuery constructor",
)

type GetEarningsQuery struct {
	courierID kernel.UUID
	period    services.Period

	guard guard.ConstructorGuard
}

// NewGetEarningsQuery accepts today, week or month; an empty period means today.
func NewGetEarningsQuery(courierID kernel.UUID, period string) (GetEarningsQuery, error) {
	p, err := services.ParsePeriod(period)
	if err = errors.Join(courierID.Validate(), err); err != nil {
		return GetEarningsQuery{}, err
	}
	return GetEarningsQuery{
		courierID: courierID,
		period:    p,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetEarningsQueryIsNotConstructed)
}

func (q GetEarningsQuery) CourierID() kernel.UUID {
	return q.courierID
}

func (q GetEarningsQuery) Period() services.Period {
	return q.period
}
