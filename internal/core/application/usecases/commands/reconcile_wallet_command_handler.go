package commands

import (
	"context"
	"errors"
	"fmt"

	"lastmile/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

type ReconcileWalletResult struct {
	CourierID kernel.UUID
	Cached    decimal.Decimal
	Derived   decimal.Decimal
}

// Drift is the cached balance minus the balance derived from the log.
func (r ReconcileWalletResult) Drift() decimal.Decimal {
	return r.Cached.Sub(r.Derived)
}

func (r ReconcileWalletResult) Repaired() bool {
	return !r.Drift().IsZero()
}

type ReconcileWalletCommandHandler struct {
	uowFactory WalletUoWFactory
}

func NewReconcileWalletCommandHandler(uowFactory WalletUoWFactory) ReconcileWalletCommandHandler {
	return ReconcileWalletCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle recomputes the balance from the transaction log and overwrites the
// cached balance when the two differ. The courier row stays locked while the
// log is summed, so no credit or debit can slip in between.
func (h ReconcileWalletCommandHandler) Handle(ctx context.Context, cmd ReconcileWalletCommand) (ReconcileWalletResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileWalletResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReconcileWalletResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	c, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return ReconcileWalletResult{}, err
	}

	credits, debits, err := uow.WalletTransactionRepository().Totals(ctx, c.ID())
	if err != nil {
		return ReconcileWalletResult{}, err
	}

	result := ReconcileWalletResult{
		CourierID: c.ID(),
		Cached:    c.WalletBalance(),
		Derived:   credits.Sub(debits),
	}
	if !result.Repaired() {
		return result, nil
	}

	if err = courierRepo.SetWalletBalance(ctx, c.ID(), result.Derived); err != nil {
		return ReconcileWalletResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ReconcileWalletResult{}, err
	}

	return result, nil
}

// ReconcileAll runs Handle for every courier, one transaction each. It keeps
// going after a failure and returns the results together with the joined
// errors.
func (h ReconcileWalletCommandHandler) ReconcileAll(ctx context.Context) ([]ReconcileWalletResult, error) {
	ids, err := h.listCourierIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ReconcileWalletResult, 0, len(ids))
	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		cmd, err := NewReconcileWalletCommand(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		result, err := h.Handle(ctx, cmd)
		if err != nil {
			errs = append(errs, fmt.Errorf("courier %s: %w", id, err))
			continue
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

func (h ReconcileWalletCommandHandler) listCourierIDs(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.CourierRepository().ListIDs(ctx)
}
