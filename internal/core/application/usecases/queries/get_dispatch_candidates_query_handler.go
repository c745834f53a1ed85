package queries

import (
	"context"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DispatchCandidate struct {
	CourierID  kernel.UUID
	Name       string
	Phone      string
	Rating     float64
	Location   MapPoint
	DistanceKm *float64
}

type GetDispatchCandidatesQueryResponse struct {
	OrderID    kernel.UUID
	Candidates []DispatchCandidate
}

type GetDispatchCandidatesQueryHandler struct {
	db         *gorm.DB
	locations  ports.LocationStore
	dispatcher services.OrderDispatcher
}

func NewGetDispatchCandidatesQueryHandler(
	db *gorm.DB,
	locations ports.LocationStore,
	dispatcher services.OrderDispatcher,
) GetDispatchCandidatesQueryHandler {
	return GetDispatchCandidatesQueryHandler{db: db, locations: locations, dispatcher: dispatcher}
}

func (h GetDispatchCandidatesQueryHandler) Handle(
	ctx context.Context,
	query GetDispatchCandidatesQuery,
) (GetDispatchCandidatesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDispatchCandidatesQueryResponse{}, err
	}

	o, err := loadOrder(ctx, h.db, query.OrderID())
	if err != nil {
		return GetDispatchCandidatesQueryResponse{}, err
	}

	couriers, err := h.availableCouriers(ctx)
	if err != nil {
		return GetDispatchCandidatesQueryResponse{}, err
	}

	ids := make([]kernel.UUID, 0, len(couriers))
	for _, c := range couriers {
		ids = append(ids, c.ID())
	}
	locations, err := h.locations.GetMany(ctx, ids)
	if err != nil {
		return GetDispatchCandidatesQueryResponse{}, err
	}

	candidates := make([]services.Candidate, 0, len(couriers))
	for _, c := range couriers {
		candidate := services.Candidate{Courier: c}
		if loc, ok := locations[c.ID()]; ok {
			point := loc.Point
			candidate.Location = &point
		}
		candidates = append(candidates, candidate)
	}

	ranked, err := h.dispatcher.Rank(o, candidates, query.Limit())
	if err != nil {
		return GetDispatchCandidatesQueryResponse{}, err
	}

	response := GetDispatchCandidatesQueryResponse{
		OrderID:    o.ID(),
		Candidates: make([]DispatchCandidate, 0, len(ranked)),
	}
	for _, r := range ranked {
		response.Candidates = append(response.Candidates, DispatchCandidate{
			CourierID:  r.Courier.ID(),
			Name:       r.Courier.Name(),
			Phone:      r.Courier.Phone(),
			Rating:     r.Courier.Rating(),
			Location:   toMapPoint(r.Location),
			DistanceKm: r.DistanceKm,
		})
	}
	return response, nil
}

func (h GetDispatchCandidatesQueryHandler) availableCouriers(ctx context.Context) ([]*courier.Courier, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, phone, availability, wallet_balance, total_deliveries, rating_sum, rating_count
		FROM couriers
		WHERE availability = ? AND deleted = false
		ORDER BY name, id
	`, string(courier.Available)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*courier.Courier
	for rows.Next() {
		var (
			rawID                   uuid.UUID
			name, phone, avail      string
			balance                 decimal.Decimal
			total, ratingSum, count int
		)
		if err = rows.Scan(&rawID, &name, &phone, &avail, &balance, &total, &ratingSum, &count); err != nil {
			return nil, err
		}
		id, idErr := kernel.UUIDFromBytes(rawID[:])
		if idErr != nil {
			return nil, idErr
		}
		c, restoreErr := courier.RestoreCourier(
			id, name, phone, courier.Availability(avail), balance, total, ratingSum, count, false,
		)
		if restoreErr != nil {
			return nil, restoreErr
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
