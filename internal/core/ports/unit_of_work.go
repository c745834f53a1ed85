package ports

import (
	"context"

	"lastmile/internal/pkg/errs"
)

// ErrVersionConflict is returned by conditional updates that lost a race
// against a concurrent writer. It matches errs.ErrConflict.
var ErrVersionConflict = errs.NewConflictError("record", "was modified concurrently")

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork groups repository writes into one database transaction. Domain
// events of every aggregate written through its repositories are stored in
// the outbox as part of Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	CourierRepository() CourierRepository

	OrderRepository() OrderRepository

	PaymentRepository() PaymentRepository

	WalletTransactionRepository() WalletTransactionRepository

	SettlementRepository() SettlementRepository

	DeductionRepository() DeductionRepository

	WorkLogRepository() WorkLogRepository

	OutboxRepository() OutboxRepository
}
