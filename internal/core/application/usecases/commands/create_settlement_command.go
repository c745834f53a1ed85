package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

var ErrCreateSettlementCommandIsNotConstructed = errors.New(
	"CreateSettlementCommand must be created via NewCreateSettlementCommand constructor",
)

type CreateSettlementCommand struct {
	courierID  kernel.UUID
	paymentIDs []kernel.UUID
	method     ledger.SettlementMethod

	guard guard.ConstructorGuard
}

// NewCreateSettlementCommand de-duplicates paymentIDs; at least one id is
// required.
func NewCreateSettlementCommand(
	courierID kernel.UUID,
	paymentIDs []kernel.UUID,
	method ledger.SettlementMethod,
) (CreateSettlementCommand, error) {
	unique := make([]kernel.UUID, 0, len(paymentIDs))
	seen := make(map[string]struct{}, len(paymentIDs))
	for _, id := range paymentIDs {
		if _, ok := seen[id.String()]; ok {
			continue
		}
		seen[id.String()] = struct{}{}
		unique = append(unique, id)
	}

	var idsErr error
	if len(unique) == 0 {
		idsErr = errs.NewValueIsRequiredError("paymentIds")
	}

	if err := errors.Join(courierID.Validate(), idsErr, method.Validate()); err != nil {
		return CreateSettlementCommand{}, err
	}

	return CreateSettlementCommand{
		courierID:  courierID,
		paymentIDs: unique,
		method:     method,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateSettlementCommand) Validate() error {
	return c.guard.Validate(ErrCreateSettlementCommandIsNotConstructed)
}

func (c CreateSettlementCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c CreateSettlementCommand) PaymentIDs() []kernel.UUID {
	return c.paymentIDs
}

func (c CreateSettlementCommand) Method() ledger.SettlementMethod {
	return c.method
}
