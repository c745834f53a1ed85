package ports

import (
	"context"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

type CourierRepository interface {
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists profile and availability. Wallet balance, delivery and
	// rating counters are only changed through the atomic methods below.
	Update(ctx context.Context, courier *courier.Courier) error

	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetForUpdate is Get holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)

	ListIDs(ctx context.Context) ([]kernel.UUID, error)

	// ApplyWalletDelta adds delta to the stored balance in one statement and
	// returns the balance after the change.
	ApplyWalletDelta(ctx context.Context, id kernel.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// SetWalletBalance overwrites the cached balance; used by reconciliation only.
	SetWalletBalance(ctx context.Context, id kernel.UUID, balance decimal.Decimal) error

	IncrementDeliveries(ctx context.Context, id kernel.UUID) (int, error)

	AddRating(ctx context.Context, id kernel.UUID, score int) (sum int, count int, err error)
}
