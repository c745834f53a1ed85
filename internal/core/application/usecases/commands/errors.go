package commands

import (
	"errors"

	"lastmile/internal/core/ports"
	"lastmile/internal/pkg/errs"
)

func isNotFound(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound)
}

func isVersionConflict(err error) bool {
	return errors.Is(err, ports.ErrVersionConflict)
}
