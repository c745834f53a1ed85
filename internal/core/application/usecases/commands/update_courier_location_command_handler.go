package commands

import (
	"context"
	"time"

	"lastmile/internal/core/ports"
)

type UpdateCourierLocationCommandHandler struct {
	uowFactory CourierUoWFactory
	locations  ports.LocationStore
}

func NewUpdateCourierLocationCommandHandler(
	uowFactory CourierUoWFactory,
	locations ports.LocationStore,
) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{
		uowFactory: uowFactory,
		locations:  locations,
	}
}

// Handle stores the courier's last known position. Nothing is written to
// the database.
func (h UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) (ports.CourierLocation, error) {
	if err := cmd.Validate(); err != nil {
		return ports.CourierLocation{}, err
	}

	if err := h.ensureCourierExists(ctx, cmd); err != nil {
		return ports.CourierLocation{}, err
	}

	loc := ports.CourierLocation{
		CourierID: cmd.CourierID(),
		Point:     cmd.Point(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.locations.Save(ctx, loc); err != nil {
		return ports.CourierLocation{}, err
	}

	return loc, nil
}

func (h UpdateCourierLocationCommandHandler) ensureCourierExists(ctx context.Context, cmd UpdateCourierLocationCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	_, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	return err
}
