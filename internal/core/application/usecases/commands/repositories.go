package commands

import (
	"context"

	"lastmile/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	WalletRepoFactory interface {
		WalletTransactionRepository() ports.WalletTransactionRepository
	}

	SettlementRepoFactory interface {
		SettlementRepository() ports.SettlementRepository
	}

	WorkLogRepoFactory interface {
		WorkLogRepository() ports.WorkLogRepository
	}

	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	CourierUoWFactory interface {
		Create() CourierUoW
	}

	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
	}

	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	DeliveryUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		PaymentRepoFactory
		WalletRepoFactory
	}

	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	SettlementUoW interface {
		TxManager
		CourierRepoFactory
		PaymentRepoFactory
		WalletRepoFactory
		SettlementRepoFactory
	}

	SettlementUoWFactory interface {
		Create() SettlementUoW
	}

	WalletUoW interface {
		TxManager
		CourierRepoFactory
		WalletRepoFactory
	}

	WalletUoWFactory interface {
		Create() WalletUoW
	}

	ShiftUoW interface {
		TxManager
		CourierRepoFactory
		WorkLogRepoFactory
	}

	ShiftUoWFactory interface {
		Create() ShiftUoW
	}

	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}
)
