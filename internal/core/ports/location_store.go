package ports

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
)

type CourierLocation struct {
	CourierID kernel.UUID
	Point     kernel.GeoPoint
	UpdatedAt time.Time
}

// LocationStore keeps the last reported position of each courier. Entries
// expire; a missing position is reported as nil without error.
type LocationStore interface {
	Save(ctx context.Context, loc CourierLocation) error

	Get(ctx context.Context, courierID kernel.UUID) (*CourierLocation, error)

	GetMany(ctx context.Context, courierIDs []kernel.UUID) (map[kernel.UUID]CourierLocation, error)
}
