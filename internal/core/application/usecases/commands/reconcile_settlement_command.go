package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrReconcileSettlementCommandIsNotConstructed = errors.New(
	"ReconcileSettlementCommand must be created via NewReconcileSettlementCommand constructor",
)

type ReconcileSettlementCommand struct {
	settlementID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReconcileSettlementCommand(settlementID kernel.UUID) (ReconcileSettlementCommand, error) {
	if err := settlementID.Validate(); err != nil {
		return ReconcileSettlementCommand{}, err
	}

	return ReconcileSettlementCommand{
		settlementID: settlementID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileSettlementCommand) Validate() error {
	return c.guard.Validate(ErrReconcileSettlementCommandIsNotConstructed)
}

func (c ReconcileSettlementCommand) SettlementID() kernel.UUID {
	return c.settlementID
}
