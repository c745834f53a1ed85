package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

type CompleteDeliveryCommand struct {
	orderID         kernel.UUID
	courierID       kernel.UUID
	paymentMethod   ledger.Method
	amountCollected decimal.Decimal
	notes           string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand builds the command. An empty payment method
// means the method the order was placed with.
func NewCompleteDeliveryCommand(
	orderID kernel.UUID,
	courierID kernel.UUID,
	paymentMethod ledger.Method,
	amountCollected decimal.Decimal,
	notes string,
) (CompleteDeliveryCommand, error) {
	var methodErr, amountErr error
	if paymentMethod != "" {
		methodErr = paymentMethod.Validate()
	}
	if amountCollected.IsNegative() {
		amountErr = errs.NewValueIsOutOfRangeError("amountCollected", amountCollected.String(), 0, "grand total")
	}

	if err := errors.Join(orderID.Validate(), courierID.Validate(), methodErr, amountErr); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return CompleteDeliveryCommand{
		orderID:         orderID,
		courierID:       courierID,
		paymentMethod:   paymentMethod,
		amountCollected: amountCollected,
		notes:           notes,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CompleteDeliveryCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c CompleteDeliveryCommand) PaymentMethod() ledger.Method {
	return c.paymentMethod
}

func (c CompleteDeliveryCommand) AmountCollected() decimal.Decimal {
	return c.amountCollected
}

func (c CompleteDeliveryCommand) Notes() string {
	return c.notes
}
