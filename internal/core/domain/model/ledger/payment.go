package ledger

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewCODPayment or RestorePayment")

// Payment is one collection of money for an order. Its status only moves
// forward: PENDING or SUCCESS to SETTLED.
type Payment struct {
	id           kernel.UUID
	orderID      kernel.UUID
	amount       decimal.Decimal
	method       Method
	status       PaymentStatus
	collectorID  *kernel.UUID
	collectedAt  time.Time
	settlementID *kernel.UUID

	isConstructed bool
}

// NewCODPayment records cash collected by a courier at the door.
func NewCODPayment(id kernel.UUID, orderID kernel.UUID, collectorID kernel.UUID, amount decimal.Decimal, at time.Time) (*Payment, error) {
	p := &Payment{
		method:        MethodCOD,
		status:        PaymentSuccess,
		collectedAt:   at.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setCollector(&collectorID),
		p.setAmount(amount),
	); err != nil {
		return nil, err
	}
	return p, nil
}

func RestorePayment(
	id kernel.UUID,
	orderID kernel.UUID,
	amount decimal.Decimal,
	method Method,
	status PaymentStatus,
	collectorID *kernel.UUID,
	collectedAt time.Time,
	settlementID *kernel.UUID,
) (*Payment, error) {
	p := &Payment{
		collectedAt:   collectedAt,
		settlementID:  settlementID,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setCollector(collectorID),
		p.setAmount(amount),
		method.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	p.method = method
	p.status = status
	return p, nil
}

func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payment) Amount() decimal.Decimal {
	return p.amount
}

func (p *Payment) Method() Method {
	return p.method
}

func (p *Payment) Status() PaymentStatus {
	return p.status
}

func (p *Payment) CollectorID() *kernel.UUID {
	return p.collectorID
}

func (p *Payment) CollectedAt() time.Time {
	return p.collectedAt
}

func (p *Payment) SettlementID() *kernel.UUID {
	return p.settlementID
}

func (p *Payment) IsCollectedBy(id kernel.UUID) bool {
	return p.collectorID != nil && p.collectorID.IsEqual(id)
}

// MarkSettled attaches the payment to a settlement. Settled payments are immutable.
func (p *Payment) MarkSettled(settlementID kernel.UUID) error {
	if !p.status.IsOutstanding() {
		return errs.NewConflictError("payment", fmt.Sprintf("is already %s", p.status))
	}
	p.status = PaymentSettled
	p.settlementID = &settlementID
	return nil
}

func (p *Payment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Payment) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.orderID = id
	return nil
}

func (p *Payment) setCollector(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	p.collectorID = id
	return nil
}

func (p *Payment) setAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	p.amount = amount
	return nil
}

// SumAmounts adds up payment amounts.
func SumAmounts(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.amount)
	}
	return total
}
