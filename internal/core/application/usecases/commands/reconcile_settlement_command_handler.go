package commands

import (
	"context"

	"lastmile/internal/core/domain/model/ledger"
)

type ReconcileSettlementCommandHandler struct {
	uowFactory SettlementUoWFactory
}

func NewReconcileSettlementCommandHandler(uowFactory SettlementUoWFactory) ReconcileSettlementCommandHandler {
	return ReconcileSettlementCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle closes a PAID settlement once the company has matched the funds.
func (h ReconcileSettlementCommandHandler) Handle(ctx context.Context, cmd ReconcileSettlementCommand) (*ledger.Settlement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settlementRepo := uow.SettlementRepository()

	s, err := settlementRepo.Get(ctx, cmd.SettlementID())
	if err != nil {
		return nil, err
	}

	if err = s.Reconcile(); err != nil {
		return nil, err
	}

	if err = settlementRepo.Update(ctx, s, ledger.SettlementPaid); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
