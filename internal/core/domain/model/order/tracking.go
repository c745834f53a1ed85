package order

import (
	"fmt"
	"math"
	"time"

	"lastmile/internal/core/domain/model/kernel"
)

// AverageSpeedKmh is the courier speed assumed for ETA estimates.
const AverageSpeedKmh = 20.0

// Action is the next lifecycle operation the courier app should offer.
type Action string

const (
	ActionAccept          Action = "accept"
	ActionPickup          Action = "pickup"
	ActionStartNavigation Action = "start_navigation"
	ActionReached         Action = "reached"
	ActionComplete        Action = "complete"
)

var primaryActions = map[Stage]Action{
	StagePending:        ActionAccept,
	StageProductShipped: ActionAccept,
	StageAccepted:       ActionPickup,
	StagePickedUp:       ActionStartNavigation,
	StageNavigating:     ActionReached,
	StageReached:        ActionComplete,
}

// PrimaryAction returns nil once no lifecycle operation remains.
func PrimaryAction(stage Stage) *Action {
	a, ok := primaryActions[stage]
	if !ok {
		return nil
	}
	return &a
}

type TimelineStep struct {
	Key       string
	Label     string
	Completed bool
	At        *time.Time
}

// BuildTimelineSteps depends on the milestones only.
func BuildTimelineSteps(m Milestones) []TimelineStep {
	step := func(key, label string, at *time.Time) TimelineStep {
		return TimelineStep{Key: key, Label: label, Completed: at != nil, At: at}
	}
	return []TimelineStep{
		step("to_store", "Picked up from store", m.PickedUpAt),
		step("to_customer", "On the way to customer", m.NavigationStartedAt),
		step("reached", "Reached customer", m.ReachedAt),
		step("delivered", "Delivered", m.DeliveredAt),
	}
}

// Destination is the pickup point until the parcel is picked up and the drop
// point afterwards.
func Destination(stage Stage, pickup *kernel.GeoPoint, drop *kernel.GeoPoint) *kernel.GeoPoint {
	if stage.IsOpen() || stage == StageAccepted {
		return pickup
	}
	return drop
}

// EstimateETAMinutes converts a remaining distance into whole minutes at
// AverageSpeedKmh, rounding up.
func EstimateETAMinutes(stage Stage, distanceKm *float64) *int {
	if stage.IsTerminal() {
		zero := 0
		return &zero
	}
	if distanceKm == nil {
		return nil
	}
	minutes := int(math.Ceil(*distanceKm / AverageSpeedKmh * 60))
	return &minutes
}

func NavigationURL(destination *kernel.GeoPoint) *string {
	if destination == nil {
		return nil
	}
	u := fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%.6f,%.6f&travelmode=driving",
		destination.Lat(), destination.Lng())
	return &u
}
