package services

import (
	"errors"
	"sort"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"
)

var ErrCourierNotFound = errors.New("courier not found")

// Candidate is a courier together with its last known position, which lives
// outside the aggregate.
type Candidate struct {
	Courier  *courier.Courier
	Location *kernel.GeoPoint
}

// RankedCandidate is a candidate with its distance to the pickup point.
// DistanceKm is nil when either position is unknown.
type RankedCandidate struct {
	Courier    *courier.Courier
	Location   *kernel.GeoPoint
	DistanceKm *float64
}

// OrderDispatcher chooses couriers for open orders.
type OrderDispatcher struct{}

func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// Rank returns dispatchable couriers that did not skip the order, nearest to
// the pickup point first. Couriers without a known position go last. A limit
// of zero or less returns every candidate.
func (d OrderDispatcher) Rank(o *order.Order, candidates []Candidate, limit int) ([]RankedCandidate, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !o.Stage().IsOpen() || o.Courier() != nil {
		return nil, errs.NewConflictError("order", "is no longer open")
	}

	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Courier.Validate(); err != nil {
			return nil, err
		}
		if !c.Courier.IsDispatchable() || o.HasSkipped(c.Courier.ID()) {
			continue
		}
		ranked = append(ranked, RankedCandidate{
			Courier:    c.Courier,
			Location:   c.Location,
			DistanceKm: kernel.DistanceKm(c.Location, o.PickupPoint()),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].DistanceKm, ranked[j].DistanceKm
		switch {
		case a == nil && b == nil:
			return ranked[i].Courier.ID().String() < ranked[j].Courier.ID().String()
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		default:
			return ranked[i].Courier.ID().String() < ranked[j].Courier.ID().String()
		}
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Best returns the nearest eligible courier.
func (d OrderDispatcher) Best(o *order.Order, candidates []Candidate) (*courier.Courier, error) {
	ranked, err := d.Rank(o, candidates, 1)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrCourierNotFound
	}
	return ranked[0].Courier, nil
}
