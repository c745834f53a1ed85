package postgres

import (
	"lastmile/internal/adapters/out/postgres/courierrepo"
	"lastmile/internal/adapters/out/postgres/ledgerrepo"
	"lastmile/internal/adapters/out/postgres/orderrepo"
	"lastmile/internal/adapters/out/postgres/outboxrepo"
	"lastmile/internal/adapters/out/postgres/worklogrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&courierrepo.CourierDTO{},
		&orderrepo.OrderDTO{},
		&ledgerrepo.PaymentDTO{},
		&ledgerrepo.WalletTransactionDTO{},
		&ledgerrepo.SettlementDTO{},
		&ledgerrepo.DeductionDTO{},
		&worklogrepo.WorkLogDTO{},
		&outboxrepo.MessageDTO{},
	); err != nil {
		return err
	}

	return worklogrepo.CreateOpenShiftIndex(db)
}

// Tables lists the owned tables in an order safe for TRUNCATE.
var Tables = []string{
	"outbox_messages",
	"work_logs",
	"deductions",
	"settlements",
	"wallet_transactions",
	"payments",
	"orders",
	"couriers",
}
