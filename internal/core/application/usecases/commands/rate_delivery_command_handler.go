package commands

import (
	"context"

	"lastmile/internal/core/domain/model/order"
)

type RateDeliveryCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

func NewRateDeliveryCommandHandler(uowFactory AssignmentUoWFactory) RateDeliveryCommandHandler {
	return RateDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle stores the customer's score on the order and adds it to the
// courier's rating totals.
func (h RateDeliveryCommandHandler) Handle(ctx context.Context, cmd RateDeliveryCommand) (*order.Order, error) {
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

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Rate(cmd.Score()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if _, _, err = uow.CourierRepository().AddRating(ctx, *o.Courier(), cmd.Score()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
