package commands

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/worklog"
)

type ChangeShiftCommandHandler struct {
	uowFactory ShiftUoWFactory
}

func NewChangeShiftCommandHandler(uowFactory ShiftUoWFactory) ChangeShiftCommandHandler {
	return ChangeShiftCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle opens a work log when the courier goes online and closes it when
// they go offline. Going offline without an open log still succeeds and
// returns a nil log.
func (h ChangeShiftCommandHandler) Handle(ctx context.Context, cmd ChangeShiftCommand) (*worklog.WorkLog, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	c, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var log *worklog.WorkLog
	if cmd.Online() {
		log, err = h.goOnline(ctx, uow, c, now)
	} else {
		log, err = h.goOffline(ctx, uow, c, now)
	}
	if err != nil {
		return nil, err
	}

	if err = courierRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return log, nil
}

func (h ChangeShiftCommandHandler) goOnline(ctx context.Context, uow ShiftUoW, c *courier.Courier, at time.Time) (*worklog.WorkLog, error) {
	if err := c.GoOnline(at); err != nil {
		return nil, err
	}

	log, err := worklog.Open(c.ID(), at)
	if err != nil {
		return nil, err
	}
	if err = uow.WorkLogRepository().Add(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (h ChangeShiftCommandHandler) goOffline(ctx context.Context, uow ShiftUoW, c *courier.Courier, at time.Time) (*worklog.WorkLog, error) {
	if err := c.GoOffline(at); err != nil {
		return nil, err
	}

	logRepo := uow.WorkLogRepository()

	log, err := logRepo.GetOpen(ctx, c.ID())
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err = log.Close(at); err != nil {
		return nil, err
	}
	if err = logRepo.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}
