package jobs

import (
	"context"
	"time"

	"lastmile/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultOutboxRelaySchedule = "*/2 * * * * *"
	outboxRelayTimeout         = 30 * time.Second
)

type OutboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (commands.RelayOutboxResult, error)
}

// OutboxRelayJob drains the transactional outbox into the broker.
type OutboxRelayJob struct {
	relayer   OutboxRelayer
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewOutboxRelayJob uses DefaultOutboxRelaySchedule when schedule is empty.
// The schedule has a seconds field.
func NewOutboxRelayJob(relayer OutboxRelayer, schedule string, batchSize int, logger *zap.Logger) *OutboxRelayJob {
	if schedule == "" {
		schedule = DefaultOutboxRelaySchedule
	}
	logger = logger.With(zap.String("component", "outbox_relay_job"))
	return &OutboxRelayJob{
		relayer:   relayer,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      newCron(logger),
		logger:    logger,
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), outboxRelayTimeout)
		defer cancel()
		j.Run(ctx)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("outbox relay job started", zap.String("schedule", j.schedule))
	return nil
}

// Run relays a single batch.
func (j *OutboxRelayJob) Run(ctx context.Context) {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.Error("build relay command", zap.Error(err))
		return
	}

	result, err := j.relayer.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("outbox relay failed", zap.Error(err))
		return
	}
	if result.Sent+result.Retried+result.Dead == 0 {
		return
	}

	j.logger.Info("outbox batch relayed",
		zap.Int("sent", result.Sent),
		zap.Int("retried", result.Retried),
		zap.Int("dead", result.Dead),
	)
}

// Stop waits for a running batch to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("outbox relay job stopped")
}
