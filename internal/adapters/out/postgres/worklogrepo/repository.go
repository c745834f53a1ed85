// Package worklogrepo stores courier shifts. At most one shift per courier
// is open at a time; a partial unique index enforces it.
package worklogrepo

import (
	"context"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/worklog"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	openShiftIndex  = "ux_work_logs_open_shift"
	uniqueViolation = "23505"
)

type WorkLogDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;not null;index"`
	StartedAt time.Time `gorm:"not null"`
	EndedAt   *time.Time
}

func (WorkLogDTO) TableName() string {
	return "work_logs"
}

// CreateOpenShiftIndex installs the index AutoMigrate cannot express.
func CreateOpenShiftIndex(db *gorm.DB) error {
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS " + openShiftIndex +
			" ON work_logs (courier_id) WHERE ended_at IS NULL",
	).Error
}

type GormWorkLogRepository struct {
	db *gorm.DB
}

func NewGormWorkLogRepository(db *gorm.DB) *GormWorkLogRepository {
	return &GormWorkLogRepository{db: db}
}

func (r *GormWorkLogRepository) Add(ctx context.Context, log *worklog.WorkLog) error {
	if err := log.Validate(); err != nil {
		return err
	}

	dto := fromDomain(log)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.NewConflictErrorWithCause("workLog", "is already open for courier "+log.CourierID().String(), err)
		}
		return err
	}
	return nil
}

func (r *GormWorkLogRepository) Update(ctx context.Context, log *worklog.WorkLog) error {
	if err := log.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&WorkLogDTO{}).
		Where("id = ?", log.ID().Bytes()).
		Update("ended_at", log.EndedAt())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("workLog", log.ID().String())
	}
	return nil
}

// GetOpen returns errs.ErrObjectNotFound when the courier is off shift.
func (r *GormWorkLogRepository) GetOpen(ctx context.Context, courierID kernel.UUID) (*worklog.WorkLog, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dto WorkLogDTO
	if err := r.db.WithContext(ctx).
		Where("courier_id = ? AND ended_at IS NULL", courierID.Bytes()).
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("workLog", courierID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func fromDomain(log *worklog.WorkLog) WorkLogDTO {
	return WorkLogDTO{
		ID:        log.ID().Bytes(),
		CourierID: log.CourierID().Bytes(),
		StartedAt: log.StartedAt(),
		EndedAt:   log.EndedAt(),
	}
}

func toDomain(dto WorkLogDTO) (*worklog.WorkLog, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	return worklog.RestoreWorkLog(id, courierID, dto.StartedAt, dto.EndedAt)
}
