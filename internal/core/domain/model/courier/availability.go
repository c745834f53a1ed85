package courier

import (
	"fmt"

	"lastmile/internal/pkg/errs"
)

type Availability string

const (
	Available  Availability = "available"
	OnDelivery Availability = "on_delivery"
	Offline    Availability = "offline"
)

func (a Availability) Validate() error {
	switch a {
	case Available, OnDelivery, Offline:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%q is not a valid availability", string(a)))
}

func (a Availability) String() string {
	return string(a)
}
