package ledger

import (
	"fmt"
	"strings"

	"lastmile/internal/pkg/errs"
)

// Method is how money changed hands.
type Method string

const (
	MethodCOD     Method = "COD"
	MethodDigital Method = "DIGITAL"
)

func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m Method) Validate() error {
	switch m {
	case MethodCOD, MethodDigital:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a valid payment method", string(m)))
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentSettled PaymentStatus = "SETTLED"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentSettled:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", string(s)))
}

// IsOutstanding reports whether collected money has not been handed over yet.
func (s PaymentStatus) IsOutstanding() bool {
	return s == PaymentPending || s == PaymentSuccess
}

type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

func (d Direction) Validate() error {
	switch d {
	case Credit, Debit:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("direction", fmt.Errorf("%q is not a valid direction", string(d)))
}

type Source string

const (
	SourceDelivery   Source = "DELIVERY"
	SourceIncentive  Source = "INCENTIVE"
	SourceDeduction  Source = "DEDUCTION"
	SourceSettlement Source = "SETTLEMENT"
	SourceAdjustment Source = "ADJUSTMENT"
)

func (s Source) Validate() error {
	switch s {
	case SourceDelivery, SourceIncentive, SourceDeduction, SourceSettlement, SourceAdjustment:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("source", fmt.Errorf("%q is not a valid source", string(s)))
}

type SettlementStatus string

const (
	SettlementPending    SettlementStatus = "PENDING"
	SettlementPaid       SettlementStatus = "PAID"
	SettlementReconciled SettlementStatus = "RECONCILED"
)

func (s SettlementStatus) Validate() error {
	switch s {
	case SettlementPending, SettlementPaid, SettlementReconciled:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("settlementStatus", fmt.Errorf("%q is not a valid settlement status", string(s)))
}

// SettlementMethod is the channel a courier uses to hand cash back.
type SettlementMethod string

const (
	SettlementUPI          SettlementMethod = "UPI"
	SettlementCash         SettlementMethod = "CASH"
	SettlementBankTransfer SettlementMethod = "BANK_TRANSFER"
)

func ParseSettlementMethod(s string) (SettlementMethod, error) {
	if strings.TrimSpace(s) == "" {
		return SettlementUPI, nil
	}
	m := SettlementMethod(strings.ToUpper(strings.TrimSpace(s)))
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m SettlementMethod) Validate() error {
	switch m {
	case SettlementUPI, SettlementCash, SettlementBankTransfer:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("method", fmt.Errorf("%q is not a valid settlement method", string(m)))
}

type DeductionStatus string

const (
	DeductionOpen         DeductionStatus = "OPEN"
	DeductionAcknowledged DeductionStatus = "ACKNOWLEDGED"
	DeductionReversed     DeductionStatus = "REVERSED"
)

func (s DeductionStatus) Validate() error {
	switch s {
	case DeductionOpen, DeductionAcknowledged, DeductionReversed:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("deductionStatus", fmt.Errorf("%q is not a valid deduction status", string(s)))
}
