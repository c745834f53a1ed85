package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrRateDeliveryCommandIsNotConstructed = errors.New(
	"RateDeliveryCommand must be created via NewRateDeliveryCommand constructor",
)

type RateDeliveryCommand struct {
	orderID kernel.UUID
	score   int

	guard guard.ConstructorGuard
}

func NewRateDeliveryCommand(orderID kernel.UUID, score int) (RateDeliveryCommand, error) {
	var scoreErr error
	if score < order.MinRating || score > order.MaxRating {
		scoreErr = errs.NewValueIsOutOfRangeError("score", score, order.MinRating, order.MaxRating)
	}

	if err := errors.Join(orderID.Validate(), scoreErr); err != nil {
		return RateDeliveryCommand{}, err
	}

	return RateDeliveryCommand{
		orderID: orderID,
		score:   score,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRateDeliveryCommandIsNotConstructed)
}

func (c RateDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RateDeliveryCommand) Score() int {
	return c.score
}
