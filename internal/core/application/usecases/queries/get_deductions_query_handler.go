package queries

import (
	"context"
	"encoding/json"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DeductionView struct {
	ID        kernel.UUID
	OrderID   *kernel.UUID
	Items     []ledger.DeductionItem
	Total     decimal.Decimal
	Status    string
	CreatedAt time.Time
}

type GetDeductionsQueryResponse struct {
	CourierID  kernel.UUID
	Total      decimal.Decimal
	Deductions []DeductionView
}

type GetDeductionsQueryHandler struct {
	db *gorm.DB
}

func NewGetDeductionsQueryHandler(db *gorm.DB) GetDeductionsQueryHandler {
	return GetDeductionsQueryHandler{db: db}
}

// Handle lists deductions newest first. The response total leaves out
// reversed deductions.
func (h GetDeductionsQueryHandler) Handle(ctx context.Context, query GetDeductionsQuery) (GetDeductionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeductionsQueryResponse{}, err
	}
	if err := courierExists(ctx, h.db, query.CourierID()); err != nil {
		return GetDeductionsQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, order_id, items, total, status, created_at
		FROM deductions
		WHERE courier_id = ?
		ORDER BY created_at DESC, id
	`, query.CourierID().Bytes()).Rows()
	if err != nil {
		return GetDeductionsQueryResponse{}, err
	}
	defer rows.Close()

	response := GetDeductionsQueryResponse{
		CourierID:  query.CourierID(),
		Total:      decimal.Zero,
		Deductions: make([]DeductionView, 0),
	}
	for rows.Next() {
		var (
			view       DeductionView
			rawID      uuid.UUID
			rawOrderID *uuid.UUID
			items      datatypes.JSON
		)
		if err = rows.Scan(&rawID, &rawOrderID, &items, &view.Total, &view.Status, &view.CreatedAt); err != nil {
			return GetDeductionsQueryResponse{}, err
		}
		if view.ID, err = kernel.UUIDFromBytes(rawID[:]); err != nil {
			return GetDeductionsQueryResponse{}, err
		}
		if rawOrderID != nil {
			orderID, idErr := kernel.UUIDFromBytes(rawOrderID[:])
			if idErr != nil {
				return GetDeductionsQueryResponse{}, idErr
			}
			view.OrderID = &orderID
		}
		if err = json.Unmarshal(items, &view.Items); err != nil {
			return GetDeductionsQueryResponse{}, err
		}

		if ledger.DeductionStatus(view.Status) != ledger.DeductionReversed {
			response.Total = response.Total.Add(view.Total)
		}
		response.Deductions = append(response.Deductions, view)
	}
	return response, rows.Err()
}
