// Package queries contains read operations. Handlers read with raw SQL and
// do not go through the unit of work.
package queries

import (
	"context"
	"database/sql"
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderColumns = `
	id, number, stage, courier_id,
	accepted_at, picked_up_at, navigation_started_at, reached_at, delivered_at,
	payment_method, payment_status, grand_total, shipping_fee, discount,
	pickup_lat, pickup_lng, drop_lat, drop_lng,
	store_name, store_phone, customer_name, customer_phone,
	skipped_by, delivery_notes, rating, version`

// loadOrder reads one order row and rebuilds the aggregate so that stage
// derivation and access rules are the same as on the write side.
func loadOrder(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	row := db.WithContext(ctx).Raw(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id.Bytes()).Row()
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return o, err
}

func scanOrder(row *sql.Row) (*order.Order, error) {
	var (
		rawID                        uuid.UUID
		rawCourierID                 *uuid.UUID
		stage                        string
		state                        order.State
		method, paymentStatus        string
		grandTotal, shipping, discnt decimal.Decimal
		pickupLat, pickupLng         *float64
		dropLat, dropLng             *float64
		skipped                      pq.StringArray
		storeName, storePhone        sql.NullString
		customerName, customerPhone  sql.NullString
		notes                        sql.NullString
	)

	if err := row.Scan(
		&rawID, &state.Number, &stage, &rawCourierID,
		&state.Milestones.AcceptedAt, &state.Milestones.PickedUpAt, &state.Milestones.NavigationStartedAt,
		&state.Milestones.ReachedAt, &state.Milestones.DeliveredAt,
		&method, &paymentStatus, &grandTotal, &shipping, &discnt,
		&pickupLat, &pickupLng, &dropLat, &dropLng,
		&storeName, &storePhone, &customerName, &customerPhone,
		&skipped, &notes, &state.Rating, &state.Version,
	); err != nil {
		return nil, err
	}

	var err error
	if state.ID, err = kernel.UUIDFromBytes(rawID[:]); err != nil {
		return nil, err
	}
	if rawCourierID != nil {
		courierID, idErr := kernel.UUIDFromBytes(rawCourierID[:])
		if idErr != nil {
			return nil, idErr
		}
		state.CourierID = &courierID
	}
	if state.StoredStage, err = order.ParseStage(stage); err != nil {
		return nil, err
	}
	if state.Amounts, err = order.NewAmounts(grandTotal, shipping, discnt); err != nil {
		return nil, err
	}
	if state.Pickup, err = kernel.NewOptionalGeoPoint(pickupLat, pickupLng); err != nil {
		return nil, err
	}
	if state.Drop, err = kernel.NewOptionalGeoPoint(dropLat, dropLng); err != nil {
		return nil, err
	}
	for _, s := range skipped {
		id, idErr := kernel.UUIDFromString(s)
		if idErr != nil {
			return nil, idErr
		}
		state.SkippedBy = append(state.SkippedBy, id)
	}

	state.PaymentMethod = ledger.Method(method)
	state.PaymentStatus = order.PaymentStatus(paymentStatus)
	state.Store = order.Contact{Name: storeName.String, Phone: storePhone.String}
	state.Customer = order.Contact{Name: customerName.String, Phone: customerPhone.String}
	state.DeliveryNotes = notes.String

	return order.RestoreOrder(state)
}

// courierExists reports NotFound for unknown or deleted couriers.
func courierExists(ctx context.Context, db *gorm.DB, id kernel.UUID) error {
	var n int64
	if err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM couriers WHERE id = ? AND deleted = false`, id.Bytes(),
	).Scan(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errs.NewObjectNotFoundError("courier", id.String())
	}
	return nil
}
