package ledger

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrSettlementIsNotConstructed = errors.New("Settlement must be created via NewSettlement or RestoreSettlement")

const (
	EventSettlementCreated = "settlement.created"
	EventSettlementPaid    = "settlement.paid"
)

// Settlement batches outstanding cash payments a courier hands back to the
// company. Amount equals the sum of the batched payments at creation time.
type Settlement struct {
	kernel.EventRecorder

	id          kernel.UUID
	courierID   kernel.UUID
	paymentIDs  []kernel.UUID
	amount      decimal.Decimal
	method      SettlementMethod
	status      SettlementStatus
	referenceID string
	settledAt   *time.Time
	createdAt   time.Time

	isConstructed bool
}

// NewSettlement builds a PENDING settlement from payments that were already
// moved to SETTLED on its behalf.
func NewSettlement(id kernel.UUID, courierID kernel.UUID, payments []*Payment, method SettlementMethod, at time.Time) (*Settlement, error) {
	if len(payments) == 0 {
		return nil, errs.NewValueIsRequiredError("payments")
	}

	ids := make([]kernel.UUID, 0, len(payments))
	for _, p := range payments {
		if !p.IsCollectedBy(courierID) {
			return nil, errs.NewForbiddenError("payment "+p.ID().String(), courierID.String())
		}
		ids = append(ids, p.ID())
	}

	s, err := RestoreSettlement(id, courierID, ids, SumAmounts(payments), method, SettlementPending, "", nil, at.UTC())
	if err != nil {
		return nil, err
	}

	s.RecordEvent(kernel.NewDomainEvent(EventSettlementCreated, id, at, map[string]any{
		"settlementId": id.String(),
		"courierId":    courierID.String(),
		"amount":       s.amount.StringFixed(2),
		"paymentCount": len(ids),
		"method":       string(method),
	}))
	return s, nil
}

func RestoreSettlement(
	id kernel.UUID,
	courierID kernel.UUID,
	paymentIDs []kernel.UUID,
	amount decimal.Decimal,
	method SettlementMethod,
	status SettlementStatus,
	referenceID string,
	settledAt *time.Time,
	createdAt time.Time,
) (*Settlement, error) {
	var amountErr error
	if amount.IsNegative() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}

	if err := errors.Join(
		id.Validate(),
		courierID.Validate(),
		method.Validate(),
		status.Validate(),
		amountErr,
	); err != nil {
		return nil, err
	}

	return &Settlement{
		id:            id,
		courierID:     courierID,
		paymentIDs:    paymentIDs,
		amount:        amount,
		method:        method,
		status:        status,
		referenceID:   referenceID,
		settledAt:     settledAt,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func (s *Settlement) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSettlementIsNotConstructed
	}
	return nil
}

func (s *Settlement) ID() kernel.UUID {
	return s.id
}

func (s *Settlement) CourierID() kernel.UUID {
	return s.courierID
}

func (s *Settlement) PaymentIDs() []kernel.UUID {
	return s.paymentIDs
}

func (s *Settlement) Amount() decimal.Decimal {
	return s.amount
}

func (s *Settlement) Method() SettlementMethod {
	return s.method
}

func (s *Settlement) Status() SettlementStatus {
	return s.status
}

func (s *Settlement) ReferenceID() string {
	return s.referenceID
}

func (s *Settlement) SettledAt() *time.Time {
	return s.settledAt
}

func (s *Settlement) CreatedAt() time.Time {
	return s.createdAt
}

// ConfirmPaid records the courier's payment of the settlement. The amount
// must match the stored amount exactly so a stale client display cannot
// confirm a different sum.
func (s *Settlement) ConfirmPaid(courierID kernel.UUID, referenceID string, amount decimal.Decimal, at time.Time) error {
	if !s.courierID.IsEqual(courierID) {
		return errs.NewForbiddenError("settlement "+s.id.String(), courierID.String())
	}
	if referenceID == "" {
		return errs.NewValueIsRequiredError("referenceId")
	}
	if !amount.Equal(s.amount) {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s does not match settlement amount %s", amount.StringFixed(2), s.amount.StringFixed(2)))
	}
	if s.status != SettlementPending {
		return errs.NewConflictError("settlement", fmt.Sprintf("is already %s", s.status))
	}

	t := at.UTC()
	s.status = SettlementPaid
	s.referenceID = referenceID
	s.settledAt = &t

	s.RecordEvent(kernel.NewDomainEvent(EventSettlementPaid, s.id, at, map[string]any{
		"settlementId": s.id.String(),
		"courierId":    s.courierID.String(),
		"amount":       s.amount.StringFixed(2),
		"referenceId":  referenceID,
	}))
	return nil
}

// Reconcile closes a paid settlement after the company matched the funds.
func (s *Settlement) Reconcile() error {
	if s.status != SettlementPaid {
		return errs.NewConflictError("settlement", fmt.Sprintf("is %s, only PAID settlements can be reconciled", s.status))
	}
	s.status = SettlementReconciled
	return nil
}
