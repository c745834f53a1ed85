// Package orderrepo persists the order aggregate. Every write is a
// conditional update on the row version.
package orderrepo

import (
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number    string     `gorm:"type:varchar(64);not null;index"`
	Stage     string     `gorm:"type:varchar(32);not null;index"`
	Status    string     `gorm:"type:varchar(32);not null"`
	CourierID *uuid.UUID `gorm:"type:uuid;index"`

	AcceptedAt          *time.Time
	PickedUpAt          *time.Time
	NavigationStartedAt *time.Time
	ReachedAt           *time.Time
	DeliveredAt         *time.Time `gorm:"index"`

	PaymentMethod string          `gorm:"type:varchar(16);not null"`
	PaymentStatus string          `gorm:"type:varchar(16);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingFee   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	Pickup   PointDTO   `gorm:"embedded;embeddedPrefix:pickup_"`
	Drop     PointDTO   `gorm:"embedded;embeddedPrefix:drop_"`
	Store    ContactDTO `gorm:"embedded;embeddedPrefix:store_"`
	Customer ContactDTO `gorm:"embedded;embeddedPrefix:customer_"`

	SkippedBy     pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	DeliveryNotes string         `gorm:"type:text"`
	Rating        *int

	Version   int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// PointDTO holds optional coordinates; both are NULL when unknown.
type PointDTO struct {
	Lat *float64
	Lng *float64
}

type ContactDTO struct {
	Name  string `gorm:"type:varchar(255)"`
	Phone string `gorm:"type:varchar(32)"`
}

// columns lists what Update writes. Nil pointers must be written as NULL,
// which gorm skips when updating from a struct.
func (dto OrderDTO) columns() map[string]any {
	return map[string]any{
		"stage":                 dto.Stage,
		"status":                dto.Status,
		"courier_id":            dto.CourierID,
		"accepted_at":           dto.AcceptedAt,
		"picked_up_at":          dto.PickedUpAt,
		"navigation_started_at": dto.NavigationStartedAt,
		"reached_at":            dto.ReachedAt,
		"delivered_at":          dto.DeliveredAt,
		"payment_status":        dto.PaymentStatus,
		"skipped_by":            dto.SkippedBy,
		"delivery_notes":        dto.DeliveryNotes,
		"rating":                dto.Rating,
		"version":               dto.Version + 1,
		"updated_at":            time.Now().UTC(),
	}
}

func fromDomain(o *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := o.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	skipped := make(pq.StringArray, 0, len(o.SkippedBy()))
	for _, id := range o.SkippedBy() {
		skipped = append(skipped, id.String())
	}

	m := o.Milestones()
	return OrderDTO{
		ID:                  o.ID().Bytes(),
		Number:              o.Number(),
		Stage:               o.Stage().String(),
		Status:              o.Status(),
		CourierID:           courierID,
		AcceptedAt:          m.AcceptedAt,
		PickedUpAt:          m.PickedUpAt,
		NavigationStartedAt: m.NavigationStartedAt,
		ReachedAt:           m.ReachedAt,
		DeliveredAt:         m.DeliveredAt,
		PaymentMethod:       string(o.PaymentMethod()),
		PaymentStatus:       string(o.PaymentStatus()),
		GrandTotal:          o.Amounts().GrandTotal(),
		ShippingFee:         o.Amounts().ShippingFee(),
		Discount:            o.Amounts().Discount(),
		Pickup:              pointFromDomain(o.PickupPoint()),
		Drop:                pointFromDomain(o.DropPoint()),
		Store:               ContactDTO{Name: o.Store().Name, Phone: o.Store().Phone},
		Customer:            ContactDTO{Name: o.Customer().Name, Phone: o.Customer().Phone},
		SkippedBy:           skipped,
		DeliveryNotes:       o.DeliveryNotes(),
		Rating:              o.Rating(),
		Version:             o.Version(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	stage, err := order.ParseStage(dto.Stage)
	if err != nil {
		return nil, err
	}

	amounts, err := order.NewAmounts(dto.GrandTotal, dto.ShippingFee, dto.Discount)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewOptionalGeoPoint(dto.Pickup.Lat, dto.Pickup.Lng)
	if err != nil {
		return nil, err
	}
	drop, err := kernel.NewOptionalGeoPoint(dto.Drop.Lat, dto.Drop.Lng)
	if err != nil {
		return nil, err
	}

	skipped := make([]kernel.UUID, 0, len(dto.SkippedBy))
	for _, raw := range dto.SkippedBy {
		sID, skipErr := kernel.UUIDFromString(raw)
		if skipErr != nil {
			return nil, skipErr
		}
		skipped = append(skipped, sID)
	}

	return order.RestoreOrder(order.State{
		ID:          id,
		Number:      dto.Number,
		StoredStage: stage,
		CourierID:   courierID,
		Milestones: order.Milestones{
			AcceptedAt:          dto.AcceptedAt,
			PickedUpAt:          dto.PickedUpAt,
			NavigationStartedAt: dto.NavigationStartedAt,
			ReachedAt:           dto.ReachedAt,
			DeliveredAt:         dto.DeliveredAt,
		},
		PaymentMethod: ledger.Method(dto.PaymentMethod),
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
		Amounts:       amounts,
		Pickup:        pickup,
		Drop:          drop,
		Store:         order.Contact{Name: dto.Store.Name, Phone: dto.Store.Phone},
		Customer:      order.Contact{Name: dto.Customer.Name, Phone: dto.Customer.Phone},
		SkippedBy:     skipped,
		DeliveryNotes: dto.DeliveryNotes,
		Rating:        dto.Rating,
		Version:       dto.Version,
	})
}

func pointFromDomain(p *kernel.GeoPoint) PointDTO {
	if p == nil {
		return PointDTO{}
	}
	lat, lng := p.Lat(), p.Lng()
	return PointDTO{Lat: &lat, Lng: &lng}
}
