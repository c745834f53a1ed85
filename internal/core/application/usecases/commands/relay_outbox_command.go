package commands

import (
	"errors"

	"lastmile/internal/pkg/errs"
	"lastmile/internal/pkg/guard"
)

const DefaultRelayBatchSize = 100

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

type RelayOutboxCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

// NewRelayOutboxCommand uses DefaultRelayBatchSize when batchSize is 0.
func NewRelayOutboxCommand(batchSize int) (RelayOutboxCommand, error) {
	if batchSize == 0 {
		batchSize = DefaultRelayBatchSize
	}
	if batchSize < 0 {
		return RelayOutboxCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}

	return RelayOutboxCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int {
	return c.batchSize
}
