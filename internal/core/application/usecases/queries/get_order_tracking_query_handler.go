package queries

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MapPoint struct {
	Lat *float64
	Lng *float64
}

type TrackingAmounts struct {
	GrandTotal    decimal.Decimal
	ShippingFee   decimal.Decimal
	Discount      decimal.Decimal
	PaymentMethod string
	PaymentStatus string
}

type GetOrderTrackingQueryResponse struct {
	OrderID       kernel.UUID
	Number        string
	Status        string
	StageLabel    string
	ETAMinutes    *int
	DistanceKm    *float64
	Amounts       TrackingAmounts
	Pickup        MapPoint
	Drop          MapPoint
	Rider         MapPoint
	Timeline      []order.TimelineStep
	Store         order.Contact
	Customer      order.Contact
	PrimaryAction *order.Action
	NavigationURL *string
}

type GetOrderTrackingQueryHandler struct {
	db        *gorm.DB
	locations ports.LocationStore
}

func NewGetOrderTrackingQueryHandler(db *gorm.DB, locations ports.LocationStore) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db, locations: locations}
}

// Handle composes the tracking view. The rider position comes from the
// location store and is empty for unassigned orders or stale positions. The
// distance for the ETA is measured from the rider, or from the pickup point
// when the rider position is unknown.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	o, err := loadOrder(ctx, h.db, query.OrderID())
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}
	if !o.CanBeViewedBy(query.CourierID()) {
		return GetOrderTrackingQueryResponse{}, errs.NewForbiddenError("order "+o.ID().String(), query.CourierID().String())
	}

	var rider *kernel.GeoPoint
	if courierID := o.Courier(); courierID != nil {
		loc, locErr := h.locations.Get(ctx, *courierID)
		if locErr != nil {
			return GetOrderTrackingQueryResponse{}, locErr
		}
		if loc != nil {
			rider = &loc.Point
		}
	}

	stage := o.Stage()
	destination := order.Destination(stage, o.PickupPoint(), o.DropPoint())
	origin := rider
	if origin == nil {
		origin = o.PickupPoint()
	}
	distance := kernel.DistanceKm(origin, destination)

	return GetOrderTrackingQueryResponse{
		OrderID:    o.ID(),
		Number:     o.Number(),
		Status:     o.Status(),
		StageLabel: stage.Label(),
		ETAMinutes: order.EstimateETAMinutes(stage, distance),
		DistanceKm: distance,
		Amounts: TrackingAmounts{
			GrandTotal:    o.Amounts().GrandTotal(),
			ShippingFee:   o.Amounts().ShippingFee(),
			Discount:      o.Amounts().Discount(),
			PaymentMethod: string(o.PaymentMethod()),
			PaymentStatus: string(o.PaymentStatus()),
		},
		Pickup:        toMapPoint(o.PickupPoint()),
		Drop:          toMapPoint(o.DropPoint()),
		Rider:         toMapPoint(rider),
		Timeline:      order.BuildTimelineSteps(o.Milestones()),
		Store:         o.Store(),
		Customer:      o.Customer(),
		PrimaryAction: order.PrimaryAction(stage),
		NavigationURL: order.NavigationURL(destination),
	}, nil
}

func toMapPoint(p *kernel.GeoPoint) MapPoint {
	if p == nil {
		return MapPoint{}
	}
	lat, lng := kernel.Round(p.Lat(), 6), kernel.Round(p.Lng(), 6)
	return MapPoint{Lat: &lat, Lng: &lng}
}
