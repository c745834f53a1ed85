package courier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	EventOnline         = "courier.online"
	EventOffline        = "courier.offline"
	EventWalletNegative = "courier.wallet_negative"
)

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is a delivery worker account.
//
// The wallet balance held here is a cached projection of the wallet
// transaction log; it is changed only through atomic storage increments and
// mirrored back with SyncWallet. Lifetime deliveries and rating totals are
// counters maintained the same way.
type Courier struct {
	kernel.EventRecorder

	id           kernel.UUID
	name         string
	phone        string
	availability Availability

	walletBalance   decimal.Decimal
	totalDeliveries int
	ratingSum       int
	ratingCount     int

	deleted bool
	guard   guard.ConstructorGuard
}

// NewCourier registers a courier. New couriers start offline with an empty wallet.
func NewCourier(id kernel.UUID, name string, phone string) (*Courier, error) {
	c := &Courier{
		availability:  Offline,
		walletBalance: decimal.Zero,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}
	c.phone = strings.TrimSpace(phone)

	return c, nil
}

func RestoreCourier(
	id kernel.UUID,
	name string,
	phone string,
	availability Availability,
	walletBalance decimal.Decimal,
	totalDeliveries int,
	ratingSum int,
	ratingCount int,
	deleted bool,
) (*Courier, error) {
	c := &Courier{
		phone:           phone,
		walletBalance:   walletBalance,
		totalDeliveries: totalDeliveries,
		ratingSum:       ratingSum,
		ratingCount:     ratingCount,
		deleted:         deleted,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setAvailability(availability),
	); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Courier) Validate() error {
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Phone() string {
	return c.phone
}

func (c *Courier) Availability() Availability {
	return c.availability
}

func (c *Courier) WalletBalance() decimal.Decimal {
	return c.walletBalance
}

func (c *Courier) OwesCompany() bool {
	return c.walletBalance.IsNegative()
}

func (c *Courier) TotalDeliveries() int {
	return c.totalDeliveries
}

// Rating is the average score rounded to two places, zero when unrated.
func (c *Courier) Rating() float64 {
	if c.ratingCount == 0 {
		return 0
	}
	return kernel.Round(float64(c.ratingSum)/float64(c.ratingCount), 2)
}

func (c *Courier) RatingCount() int {
	return c.ratingCount
}

func (c *Courier) RatingSum() int {
	return c.ratingSum
}

func (c *Courier) IsDeleted() bool {
	return c.deleted
}

// IsDispatchable reports whether the courier may be offered new orders.
func (c *Courier) IsDispatchable() bool {
	return !c.deleted && c.availability == Available
}

// GoOnline starts a shift.
func (c *Courier) GoOnline(at time.Time) error {
	if c.deleted {
		return errs.NewConflictError("courier", "is deactivated")
	}
	if c.availability != Offline {
		return errs.NewConflictError("courier", "is already online")
	}
	c.availability = Available
	c.record(EventOnline, at, nil)
	return nil
}

// GoOffline ends a shift. A courier with an active delivery must finish it first.
func (c *Courier) GoOffline(at time.Time) error {
	switch c.availability {
	case OnDelivery:
		return errs.NewConflictError("courier", "must finish the active delivery first")
	case Offline:
		return errs.NewConflictError("courier", "is already offline")
	}
	c.availability = Offline
	c.record(EventOffline, at, nil)
	return nil
}

// StartDelivery marks the courier busy with an order.
func (c *Courier) StartDelivery() error {
	if c.deleted {
		return errs.NewConflictError("courier", "is deactivated")
	}
	c.availability = OnDelivery
	return nil
}

// FinishDelivery frees the courier after a completed delivery.
func (c *Courier) FinishDelivery() {
	c.availability = Available
}

// SyncWallet mirrors the balance produced by an atomic storage update.
// Crossing below zero records a wallet_negative event for the ops channel.
func (c *Courier) SyncWallet(balance decimal.Decimal, at time.Time) {
	crossedBelowZero := !c.walletBalance.IsNegative() && balance.IsNegative()
	c.walletBalance = balance
	if crossedBelowZero {
		c.record(EventWalletNegative, at, map[string]any{
			"balance":     balance.StringFixed(2),
			"owesCompany": balance.Neg().StringFixed(2),
		})
	}
}

// SyncDeliveries mirrors the lifetime counter after an atomic increment.
func (c *Courier) SyncDeliveries(total int) {
	c.totalDeliveries = total
}

// SyncRating mirrors rating totals after an atomic increment.
func (c *Courier) SyncRating(sum int, count int) {
	c.ratingSum = sum
	c.ratingCount = count
}

func (c *Courier) record(name string, at time.Time, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["courierId"] = c.id.String()
	payload["availability"] = string(c.availability)
	c.RecordEvent(kernel.NewDomainEvent(name, c.id, at, payload))
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setAvailability(a Availability) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("courier %s: %w", c.id, err)
	}
	c.availability = a
	return nil
}
