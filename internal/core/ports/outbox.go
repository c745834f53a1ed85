package ports

import (
	"context"
	"time"
)

// OutboxMessage is a domain event waiting to be published.
type OutboxMessage struct {
	ID          string
	Name        string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time
	Attempts    int
}

type OutboxRepository interface {
	// ClaimDue locks up to limit messages due at now, skipping rows locked by
	// other relays. The locks are held until the surrounding transaction ends.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]OutboxMessage, error)

	MarkSent(ctx context.Context, id string, at time.Time) error

	Reschedule(ctx context.Context, id string, attempts int, next time.Time, lastError string) error

	MarkDead(ctx context.Context, id string, attempts int, lastError string) error
}

// EventPublisher delivers outbox messages to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
}
