package queries

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

// WalletHistoryLimit caps the transactions returned with the wallet view.
const WalletHistoryLimit = 50

var ErrGetWalletQueryIsNotConstructed = errors.New(
	"GetWalletQuery must be created via NewGetWalletQuery constructor",
)

type GetWalletQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetWalletQuery(courierID kernel.UUID) (GetWalletQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetWalletQuery{}, err
	}
	return GetWalletQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletQueryIsNotConstructed)
}

func (q GetWalletQuery) CourierID() kernel.UUID {
	return q.courierID
}
