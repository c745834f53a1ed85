package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/ledger"
)

type ConfirmPayableCommandHandler struct {
	uowFactory SettlementUoWFactory
}

func NewConfirmPayableCommandHandler(uowFactory SettlementUoWFactory) ConfirmPayableCommandHandler {
	return ConfirmPayableCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle marks a pending settlement PAID. The wallet was already debited when
// the settlement was created. Concurrent confirmations are serialized by the
// conditional status update; the loser gets a conflict.
func (h ConfirmPayableCommandHandler) Handle(ctx context.Context, cmd ConfirmPayableCommand) (*ledger.Settlement, error) {
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

	if err = s.ConfirmPaid(cmd.CourierID(), cmd.ReferenceID(), cmd.Amount(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = settlementRepo.Update(ctx, s, ledger.SettlementPending); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
