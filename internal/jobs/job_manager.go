package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Schedules struct {
	OutboxRelay     string
	WalletReconcile string
}

// JobManager starts and stops all background jobs together.
type JobManager struct {
	outboxRelayJob          *OutboxRelayJob
	walletReconciliationJob *WalletReconciliationJob
}

func NewJobManager(
	relayer OutboxRelayer,
	reconciler WalletReconciler,
	schedules Schedules,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		outboxRelayJob:          NewOutboxRelayJob(relayer, schedules.OutboxRelay, 0, logger),
		walletReconciliationJob: NewWalletReconciliationJob(reconciler, schedules.WalletReconcile, logger),
	}
}

// StartAll starts every job. If one fails to start, the ones already running
// are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.walletReconciliationJob.Start(); err != nil {
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start wallet reconciliation job: %w", err)
	}

	return nil
}

func (jm *JobManager) StopAll() {
	jm.walletReconciliationJob.Stop()
	jm.outboxRelayJob.Stop()
}

// newCron builds a scheduler with a seconds field that skips a tick while
// the previous run of the same job is still going.
func newCron(logger *zap.Logger) *cron.Cron {
	l := cronLogger{logger.Sugar()}
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
