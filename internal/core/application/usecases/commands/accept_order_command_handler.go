package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
)

type AcceptOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

func NewAcceptOrderCommandHandler(uowFactory AssignmentUoWFactory) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle lets a courier claim an open order. The order row is written with a
// conditional update, so of several concurrent accepts exactly one commits
// and the others get a conflict.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, cmd AcceptOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return claimOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.CourierID(), func(o *order.Order, at time.Time) error {
		return o.Accept(cmd.CourierID(), at)
	})
}

// claimOrder is shared by the courier and dispatcher assignment paths.
func claimOrder(
	ctx context.Context,
	uowFactory AssignmentUoWFactory,
	orderID kernel.UUID,
	courierID kernel.UUID,
	claim func(o *order.Order, at time.Time) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var c *courier.Courier
	if c, err = courierRepo.Get(ctx, courierID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err = claim(o, now); err != nil {
		return nil, err
	}
	if err = c.StartDelivery(); err != nil {
		return nil, err
	}

	if err = orderRepo.Claim(ctx, o); err != nil {
		return nil, err
	}
	if err = courierRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
