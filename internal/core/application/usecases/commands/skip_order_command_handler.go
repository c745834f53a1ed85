package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/order"
)

// SkipOrderMaxAttempts bounds retries after losing a race against another
// writer of the same order.
const SkipOrderMaxAttempts = 3

type SkipOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewSkipOrderCommandHandler(uowFactory OrderUoWFactory) SkipOrderCommandHandler {
	return SkipOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle adds the courier to the skip list. Skipping twice is a no-op.
func (h SkipOrderCommandHandler) Handle(ctx context.Context, cmd SkipOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		o   *order.Order
		err error
	)
	for attempt := 1; attempt <= SkipOrderMaxAttempts; attempt++ {
		o, err = h.skip(ctx, cmd)
		if err == nil || !isVersionConflict(err) {
			return o, err
		}
	}

	return nil, err
}

func (h SkipOrderCommandHandler) skip(ctx context.Context, cmd SkipOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	changed, err := o.Skip(cmd.CourierID(), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
