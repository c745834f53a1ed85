package commands

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via one of its constructors",
)

// AdvanceOrderCommand moves an accepted order one step further: pickup,
// start of navigation or arrival at the customer.
type AdvanceOrderCommand struct {
	action    order.Action
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewPickupOrderCommand(orderID kernel.UUID, courierID kernel.UUID) (AdvanceOrderCommand, error) {
	return newAdvanceOrderCommand(order.ActionPickup, orderID, courierID)
}

func NewStartNavigationCommand(orderID kernel.UUID, courierID kernel.UUID) (AdvanceOrderCommand, error) {
	return newAdvanceOrderCommand(order.ActionStartNavigation, orderID, courierID)
}

func NewReachedLocationCommand(orderID kernel.UUID, courierID kernel.UUID) (AdvanceOrderCommand, error) {
	return newAdvanceOrderCommand(order.ActionReached, orderID, courierID)
}

func newAdvanceOrderCommand(action order.Action, orderID kernel.UUID, courierID kernel.UUID) (AdvanceOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), courierID.Validate()); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return AdvanceOrderCommand{
		action:    action,
		orderID:   orderID,
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

func (c AdvanceOrderCommand) Action() order.Action {
	return c.action
}

func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvanceOrderCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c AdvanceOrderCommand) apply(o *order.Order, at time.Time) error {
	switch c.action {
	case order.ActionPickup:
		return o.Pickup(c.courierID, at)
	case order.ActionStartNavigation:
		return o.StartNavigation(c.courierID, at)
	case order.ActionReached:
		return o.MarkReached(c.courierID, at)
	default:
		return errs.NewValueIsInvalidError("action " + string(c.action))
	}
}
