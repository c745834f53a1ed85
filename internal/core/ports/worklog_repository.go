package ports

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/worklog"
)

type WorkLogRepository interface {
	// Add fails with errs.ErrConflict when the courier already has an open shift.
	Add(ctx context.Context, log *worklog.WorkLog) error

	Update(ctx context.Context, log *worklog.WorkLog) error

	GetOpen(ctx context.Context, courierID kernel.UUID) (*worklog.WorkLog, error)
}
