package commands

import (
	"errors"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/guard"
)

var ErrChangeShiftCommandIsNotConstructed = errors.New(
	"ChangeShiftCommand must be created via NewGoOnlineCommand or NewGoOfflineCommand",
)

// ChangeShiftCommand toggles a courier between online and offline.
type ChangeShiftCommand struct {
	courierID kernel.UUID
	online    bool

	guard guard.ConstructorGuard
}

func NewGoOnlineCommand(courierID kernel.UUID) (ChangeShiftCommand, error) {
	return newChangeShiftCommand(courierID, true)
}

func NewGoOfflineCommand(courierID kernel.UUID) (ChangeShiftCommand, error) {
	return newChangeShiftCommand(courierID, false)
}

func newChangeShiftCommand(courierID kernel.UUID, online bool) (ChangeShiftCommand, error) {
	if err := courierID.Validate(); err != nil {
		return ChangeShiftCommand{}, err
	}

	return ChangeShiftCommand{
		courierID: courierID,
		online:    online,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeShiftCommand) Validate() error {
	return c.guard.Validate(ErrChangeShiftCommandIsNotConstructed)
}

func (c ChangeShiftCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c ChangeShiftCommand) Online() bool {
	return c.online
}
