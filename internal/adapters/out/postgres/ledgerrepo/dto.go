// Package ledgerrepo stores the money side of deliveries: cash payments,
// the wallet transaction log, settlements and deductions.
package ledgerrepo

import (
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method       string          `gorm:"type:varchar(16);not null"`
	Status       string          `gorm:"type:varchar(16);not null;index"`
	CollectorID  *uuid.UUID      `gorm:"type:uuid;index"`
	CollectedAt  time.Time       `gorm:"not null"`
	SettlementID *uuid.UUID      `gorm:"type:uuid;index"`
	UpdatedAt    time.Time
}

func (PaymentDTO) TableName() string {
	return "payments"
}

type WalletTransactionDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CourierID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_wallet_tx_courier_created,priority:1"`
	Direction    string          `gorm:"type:varchar(8);not null"`
	Source       string          `gorm:"type:varchar(16);not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	BalanceAfter decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Metadata     datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt    time.Time       `gorm:"not null;index:idx_wallet_tx_courier_created,priority:2"`
}

func (WalletTransactionDTO) TableName() string {
	return "wallet_transactions"
}

type SettlementDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CourierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentIDs  pq.StringArray  `gorm:"type:text[];not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Method      string          `gorm:"type:varchar(16);not null"`
	Status      string          `gorm:"type:varchar(16);not null;index"`
	ReferenceID string          `gorm:"type:varchar(128)"`
	SettledAt   *time.Time
	CreatedAt   time.Time `gorm:"not null"`
}

func (SettlementDTO) TableName() string {
	return "settlements"
}

type DeductionDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID   *uuid.UUID      `gorm:"type:uuid"`
	Items     datatypes.JSON  `gorm:"type:jsonb;not null"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status    string          `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (DeductionDTO) TableName() string {
	return "deductions"
}

func paymentFromDomain(p *ledger.Payment) PaymentDTO {
	return PaymentDTO{
		ID:           p.ID().Bytes(),
		OrderID:      p.OrderID().Bytes(),
		Amount:       p.Amount(),
		Method:       string(p.Method()),
		Status:       string(p.Status()),
		CollectorID:  optionalRaw(p.CollectorID()),
		CollectedAt:  p.CollectedAt(),
		SettlementID: optionalRaw(p.SettlementID()),
	}
}

func paymentToDomain(dto PaymentDTO) (*ledger.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	collectorID, err := optionalID(dto.CollectorID)
	if err != nil {
		return nil, err
	}
	settlementID, err := optionalID(dto.SettlementID)
	if err != nil {
		return nil, err
	}

	return ledger.RestorePayment(
		id,
		orderID,
		dto.Amount,
		ledger.Method(dto.Method),
		ledger.PaymentStatus(dto.Status),
		collectorID,
		dto.CollectedAt,
		settlementID,
	)
}

func walletTransactionFromDomain(t *ledger.WalletTransaction) (WalletTransactionDTO, error) {
	metadata, err := json.Marshal(t.Metadata())
	if err != nil {
		return WalletTransactionDTO{}, err
	}

	return WalletTransactionDTO{
		ID:           t.ID().Bytes(),
		CourierID:    t.CourierID().Bytes(),
		Direction:    string(t.Direction()),
		Source:       string(t.Source()),
		Amount:       t.Amount(),
		BalanceAfter: t.BalanceAfter(),
		Metadata:     metadata,
		CreatedAt:    t.CreatedAt(),
	}, nil
}

func walletTransactionToDomain(dto WalletTransactionDTO) (*ledger.WalletTransaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{}
	if len(dto.Metadata) > 0 {
		if err := json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	return ledger.RestoreWalletTransaction(
		id,
		courierID,
		ledger.Direction(dto.Direction),
		ledger.Source(dto.Source),
		dto.Amount,
		dto.BalanceAfter,
		metadata,
		dto.CreatedAt,
	)
}

func settlementFromDomain(s *ledger.Settlement) SettlementDTO {
	paymentIDs := make(pq.StringArray, 0, len(s.PaymentIDs()))
	for _, id := range s.PaymentIDs() {
		paymentIDs = append(paymentIDs, id.String())
	}

	return SettlementDTO{
		ID:          s.ID().Bytes(),
		CourierID:   s.CourierID().Bytes(),
		PaymentIDs:  paymentIDs,
		Amount:      s.Amount(),
		Method:      string(s.Method()),
		Status:      string(s.Status()),
		ReferenceID: s.ReferenceID(),
		SettledAt:   s.SettledAt(),
		CreatedAt:   s.CreatedAt(),
	}
}

func settlementToDomain(dto SettlementDTO) (*ledger.Settlement, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	paymentIDs := make([]kernel.UUID, 0, len(dto.PaymentIDs))
	for _, raw := range dto.PaymentIDs {
		pID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return nil, parseErr
		}
		paymentIDs = append(paymentIDs, pID)
	}

	return ledger.RestoreSettlement(
		id,
		courierID,
		paymentIDs,
		dto.Amount,
		ledger.SettlementMethod(dto.Method),
		ledger.SettlementStatus(dto.Status),
		dto.ReferenceID,
		dto.SettledAt,
		dto.CreatedAt,
	)
}

func deductionFromDomain(d *ledger.Deduction) (DeductionDTO, error) {
	items, err := json.Marshal(d.Items())
	if err != nil {
		return DeductionDTO{}, err
	}

	return DeductionDTO{
		ID:        d.ID().Bytes(),
		CourierID: d.CourierID().Bytes(),
		OrderID:   optionalRaw(d.OrderID()),
		Items:     items,
		Total:     d.Total(),
		Status:    string(d.Status()),
		CreatedAt: d.CreatedAt(),
	}, nil
}

func deductionToDomain(dto DeductionDTO) (*ledger.Deduction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := optionalID(dto.OrderID)
	if err != nil {
		return nil, err
	}

	var items []ledger.DeductionItem
	if err := json.Unmarshal(dto.Items, &items); err != nil {
		return nil, err
	}

	return ledger.RestoreDeduction(id, courierID, orderID, items, dto.Total, ledger.DeductionStatus(dto.Status), dto.CreatedAt)
}

func optionalRaw(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
