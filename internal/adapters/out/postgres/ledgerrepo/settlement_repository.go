package ledgerrepo

import (
	"context"
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSettlementRepository implements ports.SettlementRepository using GORM.
type GormSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormSettlementRepository {
	return &GormSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormSettlementRepository) Add(ctx context.Context, settlement *ledger.Settlement) error {
	if err := settlement.Validate(); err != nil {
		return err
	}

	dto := settlementFromDomain(settlement)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(settlement.ID(), settlement)
	return nil
}

// Update moves the stored row out of status from. A row that has already
// left from is reported as a conflict.
func (r *GormSettlementRepository) Update(ctx context.Context, settlement *ledger.Settlement, from ledger.SettlementStatus) error {
	if err := settlement.Validate(); err != nil {
		return err
	}

	dto := settlementFromDomain(settlement)
	result := r.db.WithContext(ctx).Model(&SettlementDTO{}).
		Where("id = ? AND status = ?", dto.ID, string(from)).
		Updates(map[string]any{
			"status":       dto.Status,
			"reference_id": dto.ReferenceID,
			"settled_at":   dto.SettledAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConflictError("settlement", "is no longer "+string(from))
	}

	r.tracker.TrackAggregate(settlement.ID(), settlement)
	return nil
}

func (r *GormSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*ledger.Settlement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("settlement", id.String())
		}
		return nil, err
	}

	return settlementToDomain(dto)
}
