package jobs

import (
	"context"
	"time"

	"lastmile/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultWalletReconcileSchedule = "0 0 * * * *"
	walletReconcileTimeout         = 10 * time.Minute
)

type WalletReconciler interface {
	ReconcileAll(ctx context.Context) ([]commands.ReconcileWalletResult, error)
}

// WalletReconciliationJob recomputes every courier balance from the
// transaction log and repairs drifted caches.
type WalletReconciliationJob struct {
	reconciler WalletReconciler
	schedule   string
	cron       *cron.Cron
	logger     *zap.Logger
}

func NewWalletReconciliationJob(reconciler WalletReconciler, schedule string, logger *zap.Logger) *WalletReconciliationJob {
	if schedule == "" {
		schedule = DefaultWalletReconcileSchedule
	}
	logger = logger.With(zap.String("component", "wallet_reconciliation_job"))
	return &WalletReconciliationJob{
		reconciler: reconciler,
		schedule:   schedule,
		cron:       newCron(logger),
		logger:     logger,
	}
}

func (j *WalletReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), walletReconcileTimeout)
		defer cancel()
		j.Run(ctx)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("wallet reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

// Run reconciles all wallets once. Per-courier failures do not stop the pass.
func (j *WalletReconciliationJob) Run(ctx context.Context) {
	results, err := j.reconciler.ReconcileAll(ctx)

	repaired := 0
	for _, r := range results {
		if !r.Repaired() {
			continue
		}
		repaired++
		j.logger.Warn("wallet drift repaired",
			zap.String("courier_id", r.CourierID.String()),
			zap.String("cached", r.Cached.StringFixed(2)),
			zap.String("derived", r.Derived.StringFixed(2)),
			zap.String("drift", r.Drift().StringFixed(2)),
		)
	}
	if err != nil {
		j.logger.Error("wallet reconciliation incomplete", zap.Error(err))
	}

	j.logger.Info("wallets reconciled",
		zap.Int("checked", len(results)),
		zap.Int("repaired", repaired),
	)
}

func (j *WalletReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("wallet reconciliation job stopped")
}
