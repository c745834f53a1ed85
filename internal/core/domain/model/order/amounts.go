package order

import (
	"errors"
	"fmt"

	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Amounts is the monetary summary of an order.
type Amounts struct {
	grandTotal  decimal.Decimal
	shippingFee decimal.Decimal
	discount    decimal.Decimal
}

func NewAmounts(grandTotal decimal.Decimal, shippingFee decimal.Decimal, discount decimal.Decimal) (Amounts, error) {
	if err := errors.Join(
		nonNegative("grandTotal", grandTotal),
		nonNegative("shippingFee", shippingFee),
		nonNegative("discount", discount),
	); err != nil {
		return Amounts{}, err
	}
	return Amounts{grandTotal: grandTotal, shippingFee: shippingFee, discount: discount}, nil
}

func (a Amounts) GrandTotal() decimal.Decimal {
	return a.grandTotal
}

func (a Amounts) ShippingFee() decimal.Decimal {
	return a.shippingFee
}

func (a Amounts) Discount() decimal.Decimal {
	return a.discount
}

func nonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", v))
	}
	return nil
}

// PaymentStatus is the order-level payment state maintained by the store
// checkout or by cash collection on delivery.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentFailed:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", string(s)))
}

// Contact is a name and phone number shown in the tracking view.
type Contact struct {
	Name  string
	Phone string
}
