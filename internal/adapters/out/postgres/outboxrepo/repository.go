// Package outboxrepo keeps domain events in the same database as the state
// change that produced them until the relay has published them.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"type:varchar(128);not null"`
	AggregateID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Payload       datatypes.JSON `gorm:"type:jsonb;not null"`
	OccurredAt    time.Time      `gorm:"not null"`
	Attempts      int            `gorm:"not null;default:0"`
	NextAttemptAt time.Time      `gorm:"not null;index"`
	SentAt        *time.Time     `gorm:"index"`
	Dead          bool           `gorm:"not null;default:false"`
	LastError     string         `gorm:"type:text"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Store writes events as due immediately.
func (r *GormOutboxRepository) Store(ctx context.Context, events []kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e.Payload())
		if err != nil {
			return err
		}
		dtos = append(dtos, MessageDTO{
			ID:            e.ID().Bytes(),
			Name:          e.Name(),
			AggregateID:   e.AggregateID().Bytes(),
			Payload:       payload,
			OccurredAt:    e.OccurredAt(),
			NextAttemptAt: e.OccurredAt(),
		})
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

func (r *GormOutboxRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]ports.OutboxMessage, error) {
	var dtos []MessageDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("sent_at IS NULL AND dead = false AND next_attempt_at <= ?", now).
		Order("occurred_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, ports.OutboxMessage{
			ID:          dto.ID.String(),
			Name:        dto.Name,
			AggregateID: dto.AggregateID.String(),
			Payload:     dto.Payload,
			OccurredAt:  dto.OccurredAt,
			Attempts:    dto.Attempts,
		})
	}
	return messages, nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]any{"sent_at": at})
}

func (r *GormOutboxRepository) Reschedule(ctx context.Context, id string, attempts int, next time.Time, lastError string) error {
	return r.update(ctx, id, map[string]any{
		"attempts":        attempts,
		"next_attempt_at": next,
		"last_error":      lastError,
	})
}

func (r *GormOutboxRepository) MarkDead(ctx context.Context, id string, attempts int, lastError string) error {
	return r.update(ctx, id, map[string]any{
		"attempts":   attempts,
		"dead":       true,
		"last_error": lastError,
	})
}

func (r *GormOutboxRepository) update(ctx context.Context, id string, columns map[string]any) error {
	messageID, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&MessageDTO{}).Where("id = ?", messageID).Updates(columns).Error
}
