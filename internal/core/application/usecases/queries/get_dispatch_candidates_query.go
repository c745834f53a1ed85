package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const (
	DefaultCandidatesLimit = 10
	MaxCandidatesLimit     = 100
)

var ErrGetDispatchCandidatesQueryIsNotConstructed = errors.New(
	"GetDispatchCandidatesQuery must be created via NewGetDispatchCandidatesQuery constructor",
)

type GetDispatchCandidatesQuery struct {
	orderID kernel.UUID
	limit   int

	guard guard.ConstructorGuard
}

// NewGetDispatchCandidatesQuery uses DefaultCandidatesLimit when limit is zero.
func NewGetDispatchCandidatesQuery(orderID kernel.UUID, limit int) (GetDispatchCandidatesQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDispatchCandidatesQuery{}, err
	}
	if limit == 0 {
		limit = DefaultCandidatesLimit
	}
	if limit < 1 || limit > MaxCandidatesLimit {
		return GetDispatchCandidatesQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxCandidatesLimit)
	}
	return GetDispatchCandidatesQuery{orderID: orderID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDispatchCandidatesQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchCandidatesQueryIsNotConstructed)
}

func (q GetDispatchCandidatesQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetDispatchCandidatesQuery) Limit() int {
	return q.limit
}
