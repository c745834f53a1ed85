package ledgerrepo

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"

	"gorm.io/gorm"
)

type GormDeductionRepository struct {
	db *gorm.DB
}

func NewGormDeductionRepository(db *gorm.DB) *GormDeductionRepository {
	return &GormDeductionRepository{db: db}
}

func (r *GormDeductionRepository) Add(ctx context.Context, deduction *ledger.Deduction) error {
	if err := deduction.Validate(); err != nil {
		return err
	}

	dto, err := deductionFromDomain(deduction)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormDeductionRepository) ListByCourier(ctx context.Context, courierID kernel.UUID) ([]*ledger.Deduction, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DeductionDTO
	if err := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	deductions := make([]*ledger.Deduction, 0, len(dtos))
	for _, dto := range dtos {
		d, err := deductionToDomain(dto)
		if err != nil {
			return nil, err
		}
		deductions = append(deductions, d)
	}
	return deductions, nil
}
