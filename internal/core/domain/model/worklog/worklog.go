// Package worklog records courier shifts, from going online to going offline.
package worklog

import (
	"errors"
	"fmt"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

var ErrWorkLogIsNotConstructed = errors.New("WorkLog must be created via Open or RestoreWorkLog")

// WorkLog is one shift. A courier has at most one open shift.
type WorkLog struct {
	id        kernel.UUID
	courierID kernel.UUID
	startedAt time.Time
	endedAt   *time.Time

	isConstructed bool
}

// Open starts a shift for the courier.
func Open(courierID kernel.UUID, at time.Time) (*WorkLog, error) {
	return RestoreWorkLog(kernel.NewUUID(), courierID, at.UTC(), nil)
}

func RestoreWorkLog(id kernel.UUID, courierID kernel.UUID, startedAt time.Time, endedAt *time.Time) (*WorkLog, error) {
	var timeErr error
	if startedAt.IsZero() {
		timeErr = errs.NewValueIsRequiredError("startedAt")
	} else if endedAt != nil && endedAt.Before(startedAt) {
		timeErr = errs.NewValueIsInvalidErrorWithCause("endedAt", fmt.Errorf("%s is before start %s", endedAt, startedAt))
	}

	if err := errors.Join(id.Validate(), courierID.Validate(), timeErr); err != nil {
		return nil, err
	}

	return &WorkLog{
		id:            id,
		courierID:     courierID,
		startedAt:     startedAt,
		endedAt:       endedAt,
		isConstructed: true,
	}, nil
}

func (w *WorkLog) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWorkLogIsNotConstructed
	}
	return nil
}

func (w *WorkLog) ID() kernel.UUID {
	return w.id
}

func (w *WorkLog) CourierID() kernel.UUID {
	return w.courierID
}

func (w *WorkLog) StartedAt() time.Time {
	return w.startedAt
}

func (w *WorkLog) EndedAt() *time.Time {
	return w.endedAt
}

func (w *WorkLog) IsOpen() bool {
	return w.endedAt == nil
}

// Duration of a closed shift, or zero while it is open.
func (w *WorkLog) Duration() time.Duration {
	if w.endedAt == nil {
		return 0
	}
	return w.endedAt.Sub(w.startedAt)
}

// Close ends the shift. Clock skew never yields a negative duration.
func (w *WorkLog) Close(at time.Time) error {
	if w.endedAt != nil {
		return errs.NewConflictError("work log", "is already closed")
	}
	end := at.UTC()
	if end.Before(w.startedAt) {
		end = w.startedAt
	}
	w.endedAt = &end
	return nil
}
