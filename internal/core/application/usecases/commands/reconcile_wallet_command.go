package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrReconcileWalletCommandIsNotConstructed = errors.New(
	"ReconcileWalletCommand must be created via NewReconcileWalletCommand constructor",
)

type ReconcileWalletCommand struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReconcileWalletCommand(courierID kernel.UUID) (ReconcileWalletCommand, error) {
	if err := courierID.Validate(); err != nil {
		return ReconcileWalletCommand{}, err
	}

	return ReconcileWalletCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileWalletCommand) Validate() error {
	return c.guard.Validate(ErrReconcileWalletCommandIsNotConstructed)
}

func (c ReconcileWalletCommand) CourierID() kernel.UUID {
	return c.courierID
}
