package commands

import (
	"context"
	"math"
	"time"

	"lastmile/internal/core/ports"

	"go.uber.org/zap"
)

const (
	// MaxRelayAttempts is the number of failed publishes after which a message
	// is marked dead.
	MaxRelayAttempts = 10
	MaxRelayBackoff  = 5 * time.Minute
)

type RelayOutboxResult struct {
	Sent    int
	Retried int
	Dead    int
}

type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	logger     *zap.Logger
}

func NewRelayOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With(zap.String("component", "outbox_relay")),
	}
}

// Handle publishes one batch of due outbox messages. Publish failures are
// logged and rescheduled; they never fail the batch.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (RelayOutboxResult, error) {
	if err := cmd.Validate(); err != nil {
		return RelayOutboxResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RelayOutboxResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outboxRepo := uow.OutboxRepository()

	now := time.Now().UTC()
	messages, err := outboxRepo.ClaimDue(ctx, now, cmd.BatchSize())
	if err != nil {
		return RelayOutboxResult{}, err
	}
	if len(messages) == 0 {
		return RelayOutboxResult{}, nil
	}

	var result RelayOutboxResult
	for _, msg := range messages {
		pubErr := h.publisher.Publish(ctx, msg)
		if pubErr == nil {
			if err = outboxRepo.MarkSent(ctx, msg.ID, time.Now().UTC()); err != nil {
				return RelayOutboxResult{}, err
			}
			result.Sent++
			continue
		}

		attempts := msg.Attempts + 1
		log := h.logger.With(
			zap.String("message_id", msg.ID),
			zap.String("event", msg.Name),
			zap.Int("attempts", attempts),
			zap.Error(pubErr),
		)

		if attempts >= MaxRelayAttempts {
			log.Error("outbox message is dead")
			if err = outboxRepo.MarkDead(ctx, msg.ID, attempts, pubErr.Error()); err != nil {
				return RelayOutboxResult{}, err
			}
			result.Dead++
			continue
		}

		next := now.Add(RelayBackoff(attempts))
		log.Warn("publish failed, rescheduled", zap.Time("next_attempt_at", next))
		if err = outboxRepo.Reschedule(ctx, msg.ID, attempts, next, pubErr.Error()); err != nil {
			return RelayOutboxResult{}, err
		}
		result.Retried++
	}

	if err = uow.Commit(ctx); err != nil {
		return RelayOutboxResult{}, err
	}

	return result, nil
}

// RelayBackoff is 2^attempts seconds, capped at MaxRelayBackoff.
func RelayBackoff(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 20 {
		return MaxRelayBackoff
	}
	d := time.Duration(math.Pow(2, float64(attempts))) * time.Second
	if d > MaxRelayBackoff {
		return MaxRelayBackoff
	}
	return d
}
