package commands

import (
	"context"

	"lastmile/internal/core/domain/model/order"
)

type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle stores the order as pending. Intake is idempotent on the order id:
// an order that already exists is returned unchanged.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	existing, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	o, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Number(),
		cmd.Amounts(),
		cmd.PaymentMethod(),
		cmd.Pickup(),
		cmd.Drop(),
	)
	if err != nil {
		return nil, err
	}
	o.SetContacts(cmd.Store(), cmd.Customer())

	if cmd.Prepaid() {
		if err = o.MarkPrepaid(); err != nil {
			return nil, err
		}
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
