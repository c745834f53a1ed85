package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
)

type OrderRepository interface {
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the aggregate if the stored version still matches the
	// loaded one; otherwise it fails with errs.ErrConflict.
	Update(ctx context.Context, aggregate *order.Order) error

	// Claim is Update for the acceptance write: it additionally requires the
	// stored row to have no courier.
	Claim(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
