package courierrepo

import (
	"context"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes profile and availability only. Counters and the wallet
// balance belong to the atomic methods.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":         dto.Name,
			"phone":        dto.Phone,
			"availability": dto.Availability,
			"deleted":      dto.Deleted,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *GormCourierRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetAllAvailable returns couriers that are online, idle and not deleted.
func (r *GormCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Where("availability = ? AND deleted = false", courier.Available.String()).
		Order("name").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormCourierRepository) ListIDs(ctx context.Context) ([]kernel.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("deleted = false").
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return kernel.UUIDsFromRaw(ids), nil
}

func (r *GormCourierRepository) ApplyWalletDelta(ctx context.Context, id kernel.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var rows []struct {
		WalletBalance decimal.Decimal
	}
	err := r.db.WithContext(ctx).Raw(
		`UPDATE couriers SET wallet_balance = wallet_balance + ?, updated_at = now()
		 WHERE id = ? RETURNING wallet_balance`,
		delta, id.Bytes(),
	).Scan(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}

	if len(rows) == 0 {
		return decimal.Zero, errs.NewObjectNotFoundError("courier", id.String())
	}
	return rows[0].WalletBalance, nil
}

func (r *GormCourierRepository) SetWalletBalance(ctx context.Context, id kernel.UUID, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"wallet_balance": balance,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", id.String())
	}
	return nil
}

func (r *GormCourierRepository) IncrementDeliveries(ctx context.Context, id kernel.UUID) (int, error) {
	var rows []struct {
		TotalDeliveries int
	}
	err := r.db.WithContext(ctx).Raw(
		`UPDATE couriers SET total_deliveries = total_deliveries + 1, updated_at = now()
		 WHERE id = ? RETURNING total_deliveries`,
		id.Bytes(),
	).Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 0, errs.NewObjectNotFoundError("courier", id.String())
	}
	return rows[0].TotalDeliveries, nil
}

func (r *GormCourierRepository) AddRating(ctx context.Context, id kernel.UUID, score int) (int, int, error) {
	var rows []struct {
		RatingSum   int
		RatingCount int
	}
	err := r.db.WithContext(ctx).Raw(
		`UPDATE couriers SET rating_sum = rating_sum + ?, rating_count = rating_count + 1, updated_at = now()
		 WHERE id = ? RETURNING rating_sum, rating_count`,
		score, id.Bytes(),
	).Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}

	if len(rows) == 0 {
		return 0, 0, errs.NewObjectNotFoundError("courier", id.String())
	}
	return rows[0].RatingSum, rows[0].RatingCount, nil
}

func (r *GormCourierRepository) get(query *gorm.DB, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
