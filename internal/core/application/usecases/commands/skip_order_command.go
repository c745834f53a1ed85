package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrSkipOrderCommandIsNotConstructed = errors.New(
	"SkipOrderCommand must be created via NewSkipOrderCommand constructor",
)

type SkipOrderCommand struct {
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewSkipOrderCommand(orderID kernel.UUID, courierID kernel.UUID) (SkipOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return SkipOrderCommand{}, err
	}

	return SkipOrderCommand{
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SkipOrderCommand) Validate() error {
	return c.guard.Validate(ErrSkipOrderCommandIsNotConstructed)
}

func (c SkipOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SkipOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}
