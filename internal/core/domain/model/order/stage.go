package order

import (
	"fmt"
	"time"

	"lastmile/internal/pkg/errs"
)

// Stage is the position of an order in the delivery lifecycle.
type Stage int

const (
	StageUnknown Stage = iota
	StagePending
	StageProductShipped
	StageAccepted
	StagePickedUp
	StageNavigating
	StageReached
	StageDelivered
)

var stageNames = map[Stage]string{
	StagePending:        "pending",
	StageProductShipped: "product_shipped",
	StageAccepted:       "accepted",
	StagePickedUp:       "picked_up",
	StageNavigating:     "navigating",
	StageReached:        "reached",
	StageDelivered:      "delivered",
}

// statusLabels are the customer-facing status strings. Accepted and
// PickedUp share "On the way".
var statusLabels = map[Stage]string{
	StagePending:        "Pending",
	StageProductShipped: "Product shipped",
	StageAccepted:       "On the way",
	StagePickedUp:       "On the way",
	StageNavigating:     "Out for delivery",
	StageReached:        "Your Destination",
	StageDelivered:      "Delivered",
}

var stageLabels = map[Stage]string{
	StagePending:        "Waiting for a delivery partner",
	StageProductShipped: "Waiting for a delivery partner",
	StageAccepted:       "Heading to store",
	StagePickedUp:       "Order picked up",
	StageNavigating:     "On the way to customer",
	StageReached:        "Arrived at destination",
	StageDelivered:      "Delivered",
}

// transitions lists, for every stage, the stages reachable in one step.
var transitions = map[Stage][]Stage{
	StagePending:        {StageProductShipped, StageAccepted},
	StageProductShipped: {StageAccepted},
	StageAccepted:       {StagePickedUp},
	StagePickedUp:       {StageNavigating},
	StageNavigating:     {StageReached},
	StageReached:        {StageDelivered},
	StageDelivered:      {},
}

func ParseStage(s string) (Stage, error) {
	for stage, name := range stageNames {
		if name == s {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a valid stage", s))
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Stage) Validate() error {
	if _, ok := stageNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// StatusLabel is the status string shown to customers and stores.
func (s Stage) StatusLabel() string {
	return statusLabels[s]
}

// Label is the human description of the current step for the courier app.
func (s Stage) Label() string {
	return stageLabels[s]
}

// IsOpen reports whether the order still waits for a courier.
func (s Stage) IsOpen() bool {
	return s == StagePending || s == StageProductShipped
}

func (s Stage) IsTerminal() bool {
	return s == StageDelivered
}

func (s Stage) CanTransitionTo(next Stage) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Milestones are the timestamps recorded by lifecycle transitions.
type Milestones struct {
	AcceptedAt          *time.Time
	PickedUpAt          *time.Time
	NavigationStartedAt *time.Time
	ReachedAt           *time.Time
	DeliveredAt         *time.Time
}

// DeriveStage computes the stage from the milestone timestamps alone. The
// latest recorded milestone wins. Without any milestone the order is still
// open and fallback decides between Pending and ProductShipped.
func DeriveStage(m Milestones, fallback Stage) Stage {
	switch {
	case m.DeliveredAt != nil:
		return StageDelivered
	case m.ReachedAt != nil:
		return StageReached
	case m.NavigationStartedAt != nil:
		return StageNavigating
	case m.PickedUpAt != nil:
		return StagePickedUp
	case m.AcceptedAt != nil:
		return StageAccepted
	case fallback == StageProductShipped:
		return StageProductShipped
	default:
		return StagePending
	}
}

func (m Milestones) stamp(stage Stage, at time.Time) Milestones {
	t := at.UTC()
	switch stage {
	case StageAccepted:
		m.AcceptedAt = &t
	case StagePickedUp:
		m.PickedUpAt = &t
	case StageNavigating:
		m.NavigationStartedAt = &t
	case StageReached:
		m.ReachedAt = &t
	case StageDelivered:
		m.DeliveredAt = &t
	}
	return m
}
