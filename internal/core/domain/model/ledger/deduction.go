package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrDeductionIsNotConstructed = errors.New("Deduction must be created via NewDeduction or RestoreDeduction")

type DeductionItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Deduction is an itemised amount withheld from a courier, e.g. a penalty.
// Total always equals the sum of its items.
type Deduction struct {
	id        kernel.UUID
	courierID kernel.UUID
	orderID   *kernel.UUID
	items     []DeductionItem
	total     decimal.Decimal
	status    DeductionStatus
	createdAt time.Time

	isConstructed bool
}

func NewDeduction(id kernel.UUID, courierID kernel.UUID, orderID *kernel.UUID, items []DeductionItem, at time.Time) (*Deduction, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	return RestoreDeduction(id, courierID, orderID, items, sumItems(items), DeductionOpen, at.UTC())
}

// RestoreDeduction rejects rows whose stored total disagrees with their items.
func RestoreDeduction(
	id kernel.UUID,
	courierID kernel.UUID,
	orderID *kernel.UUID,
	items []DeductionItem,
	total decimal.Decimal,
	status DeductionStatus,
	createdAt time.Time,
) (*Deduction, error) {
	var totalErr error
	if sum := sumItems(items); !sum.Equal(total) {
		totalErr = errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s does not equal items sum %s", total, sum))
	}

	if err := errors.Join(
		id.Validate(),
		courierID.Validate(),
		status.Validate(),
		totalErr,
	); err != nil {
		return nil, err
	}

	return &Deduction{
		id:            id,
		courierID:     courierID,
		orderID:       orderID,
		items:         items,
		total:         total,
		status:        status,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func (d *Deduction) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeductionIsNotConstructed
	}
	return nil
}

func (d *Deduction) ID() kernel.UUID {
	return d.id
}

func (d *Deduction) CourierID() kernel.UUID {
	return d.courierID
}

func (d *Deduction) OrderID() *kernel.UUID {
	return d.orderID
}

func (d *Deduction) Items() []DeductionItem {
	return d.items
}

func (d *Deduction) Total() decimal.Decimal {
	return d.total
}

func (d *Deduction) Status() DeductionStatus {
	return d.status
}

func (d *Deduction) CreatedAt() time.Time {
	return d.createdAt
}

func validateItems(items []DeductionItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if strings.TrimSpace(item.Label) == "" {
			return errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].label", i))
		}
		if !item.Amount.IsPositive() {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].amount", i),
				fmt.Errorf("%s is not greater than 0", item.Amount))
		}
	}
	return nil
}

func sumItems(items []DeductionItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
