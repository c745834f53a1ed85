package commands

import (
	"errors"
	"strings"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrConfirmPayableCommandIsNotConstructed = errors.New(
	"ConfirmPayableCommand must be created via NewConfirmPayableCommand constructor",
)

type ConfirmPayableCommand struct {
	settlementID kernel.UUID
	courierID    kernel.UUID
	referenceID  string
	amount       decimal.Decimal

	guard guard.ConstructorGuard
}

func NewConfirmPayableCommand(
	settlementID kernel.UUID,
	courierID kernel.UUID,
	referenceID string,
	amount decimal.Decimal,
) (ConfirmPayableCommand, error) {
	referenceID = strings.TrimSpace(referenceID)

	var refErr error
	if referenceID == "" {
		refErr = errs.NewValueIsRequiredError("referenceId")
	}

	if err := errors.Join(settlementID.Validate(), courierID.Validate(), refErr); err != nil {
		return ConfirmPayableCommand{}, err
	}

	return ConfirmPayableCommand{
		settlementID: settlementID,
		courierID:    courierID,
		referenceID:  referenceID,
		amount:       amount,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmPayableCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPayableCommandIsNotConstructed)
}

func (c ConfirmPayableCommand) SettlementID() kernel.UUID {
	return c.settlementID
}

func (c ConfirmPayableCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c ConfirmPayableCommand) ReferenceID() string {
	return c.referenceID
}

func (c ConfirmPayableCommand) Amount() decimal.Decimal {
	return c.amount
}
