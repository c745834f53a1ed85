package ledgerrepo

import (
	"context"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Add(ctx context.Context, payment *ledger.Payment) error {
	if err := payment.Validate(); err != nil {
		return err
	}

	dto := paymentFromDomain(payment)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormPaymentRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*ledger.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PaymentDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("collected_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return paymentsToDomain(dtos)
}

// SettleOutstanding flips the matching rows in a single UPDATE. Rows that are
// already settled, or collected by someone else, are left alone and are not
// returned, so two concurrent settlements can never claim the same payment.
func (r *GormPaymentRepository) SettleOutstanding(
	ctx context.Context,
	collectorID kernel.UUID,
	ids []kernel.UUID,
	settlementID kernel.UUID,
) ([]*ledger.Payment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []PaymentDTO
	err := r.db.WithContext(ctx).Raw(
		`UPDATE payments SET status = ?, settlement_id = ?, updated_at = now()
		 WHERE id IN ? AND collector_id = ? AND method = ? AND status IN ?
		 RETURNING *`,
		string(ledger.PaymentSettled),
		settlementID.Bytes(),
		raw,
		collectorID.Bytes(),
		string(ledger.MethodCOD),
		[]string{string(ledger.PaymentPending), string(ledger.PaymentSuccess)},
	).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	return paymentsToDomain(dtos)
}

func paymentsToDomain(dtos []PaymentDTO) ([]*ledger.Payment, error) {
	payments := make([]*ledger.Payment, 0, len(dtos))
	for _, dto := range dtos {
		p, err := paymentToDomain(dto)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
