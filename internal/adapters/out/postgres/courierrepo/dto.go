package courierrepo

import (
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CourierDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"type:varchar(255);not null"`
	Phone           string          `gorm:"type:varchar(32)"`
	Availability    string          `gorm:"type:varchar(16);not null;index"`
	WalletBalance   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TotalDeliveries int             `gorm:"not null;default:0"`
	RatingSum       int             `gorm:"not null;default:0"`
	RatingCount     int             `gorm:"not null;default:0"`
	Deleted         bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:              c.ID().Bytes(),
		Name:            c.Name(),
		Phone:           c.Phone(),
		Availability:    c.Availability().String(),
		WalletBalance:   c.WalletBalance(),
		TotalDeliveries: c.TotalDeliveries(),
		RatingSum:       c.RatingSum(),
		RatingCount:     c.RatingCount(),
		Deleted:         c.IsDeleted(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Phone,
		courier.Availability(dto.Availability),
		dto.WalletBalance,
		dto.TotalDeliveries,
		dto.RatingSum,
		dto.RatingCount,
		dto.Deleted,
	)
}

func toDomainList(dtos []CourierDTO) ([]*courier.Courier, error) {
	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}
