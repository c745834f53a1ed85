package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/order"
)

type AssignOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

func NewAssignOrderCommandHandler(uowFactory AssignmentUoWFactory) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle assigns a prepaid order to the given courier.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return claimOrder(ctx, h.uowFactory, cmd.OrderID(), cmd.CourierID(), func(o *order.Order, at time.Time) error {
		return o.AssignTo(cmd.CourierID(), at)
	})
}
