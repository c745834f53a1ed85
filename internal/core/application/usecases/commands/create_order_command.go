package commands

import (
	"errors"
	"strings"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrNumberIsRequired = errs.NewValueIsRequiredError("number")
)

// CreateOrderCommand takes over an order placed by the storefront so that it
// can be delivered.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	number        string
	amounts       order.Amounts
	paymentMethod ledger.Method
	prepaid       bool
	pickup        *kernel.GeoPoint
	drop          *kernel.GeoPoint
	store         order.Contact
	customer      order.Contact

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID kernel.UUID,
	number string,
	amounts order.Amounts,
	paymentMethod ledger.Method,
	prepaid bool,
	pickup *kernel.GeoPoint,
	drop *kernel.GeoPoint,
	store order.Contact,
	customer order.Contact,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		amounts:  amounts,
		prepaid:  prepaid,
		pickup:   pickup,
		drop:     drop,
		store:    store,
		customer: customer,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setNumber(number),
		orderCommand.setPaymentMethod(paymentMethod),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Number() string {
	return c.number
}

func (c CreateOrderCommand) Amounts() order.Amounts {
	return c.amounts
}

func (c CreateOrderCommand) PaymentMethod() ledger.Method {
	return c.paymentMethod
}

// Prepaid is true when the storefront already captured a digital payment.
func (c CreateOrderCommand) Prepaid() bool {
	return c.prepaid
}

func (c CreateOrderCommand) Pickup() *kernel.GeoPoint {
	return c.pickup
}

func (c CreateOrderCommand) Drop() *kernel.GeoPoint {
	return c.drop
}

func (c CreateOrderCommand) Store() order.Contact {
	return c.store
}

func (c CreateOrderCommand) Customer() order.Contact {
	return c.customer
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return ErrNumberIsRequired
	}

	c.number = number
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method ledger.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	if c.prepaid && method == ledger.MethodCOD {
		return errs.NewValueIsInvalidError("prepaid cash-on-delivery order")
	}

	c.paymentMethod = method
	return nil
}
