package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/ledger"
	"lastmile/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

const (
	EventAccepted          = "order.accepted"
	EventAssigned          = "order.assigned"
	EventSkipped           = "order.skipped"
	EventPickedUp          = "order.picked_up"
	EventNavigationStarted = "order.navigation_started"
	EventReached           = "order.reached"
	EventDelivered         = "order.delivered"

	MinRating = 1
	MaxRating = 5
)

// Order is the aggregate root of one customer purchase on its way to the
// customer.
//
// Invariants:
//   - at most one courier is assigned, and only from the Accepted stage on
//   - the stage only moves along the transition table, one step at a time
//   - DeliveredAt is set if and only if the stage is Delivered
//   - a courier appears in the skip list at most once
type Order struct {
	kernel.EventRecorder

	id     kernel.UUID
	number string

	stage      Stage
	courierID  *kernel.UUID
	milestones Milestones

	paymentMethod ledger.Method
	paymentStatus PaymentStatus
	amounts       Amounts

	pickup   *kernel.GeoPoint
	drop     *kernel.GeoPoint
	store    Contact
	customer Contact

	skippedBy     []kernel.UUID
	deliveryNotes string
	rating        *int

	// version is the optimistic concurrency token of the stored row.
	version int64

	isConstructed bool
}

// NewOrder creates an order waiting for a courier.
func NewOrder(
	id kernel.UUID,
	number string,
	amounts Amounts,
	paymentMethod ledger.Method,
	pickup *kernel.GeoPoint,
	drop *kernel.GeoPoint,
) (*Order, error) {
	o := &Order{
		stage:         StagePending,
		paymentStatus: PaymentPending,
		amounts:       amounts,
		pickup:        pickup,
		drop:          drop,
		skippedBy:     make([]kernel.UUID, 0),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State carries everything persisted for an order. It is only used to
// rebuild the aggregate from storage.
type State struct {
	ID            kernel.UUID
	Number        string
	StoredStage   Stage
	CourierID     *kernel.UUID
	Milestones    Milestones
	PaymentMethod ledger.Method
	PaymentStatus PaymentStatus
	Amounts       Amounts
	Pickup        *kernel.GeoPoint
	Drop          *kernel.GeoPoint
	Store         Contact
	Customer      Contact
	SkippedBy     []kernel.UUID
	DeliveryNotes string
	Rating        *int
	Version       int64
}

// RestoreOrder rebuilds an order from storage. The stage is derived from the
// milestone timestamps; the stored stage only distinguishes Pending from
// ProductShipped.
func RestoreOrder(s State) (*Order, error) {
	stage := DeriveStage(s.Milestones, s.StoredStage)

	o := &Order{
		stage:         stage,
		courierID:     s.CourierID,
		milestones:    s.Milestones,
		amounts:       s.Amounts,
		pickup:        s.Pickup,
		drop:          s.Drop,
		store:         s.Store,
		customer:      s.Customer,
		skippedBy:     s.SkippedBy,
		deliveryNotes: s.DeliveryNotes,
		rating:        s.Rating,
		version:       s.Version,
		isConstructed: true,
	}
	if o.skippedBy == nil {
		o.skippedBy = make([]kernel.UUID, 0)
	}

	var courierErr error
	if !stage.IsOpen() && s.CourierID == nil {
		courierErr = errs.NewValueIsRequiredErrorWithCause("courierId",
			fmt.Errorf("stage %s requires an assigned courier", stage))
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setPaymentMethod(s.PaymentMethod),
		o.setPaymentStatus(s.PaymentStatus),
		courierErr,
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) Stage() Stage {
	return o.stage
}

// Status is the customer-facing status string derived from the stage.
func (o *Order) Status() string {
	return o.stage.StatusLabel()
}

func (o *Order) Courier() *kernel.UUID {
	return o.courierID
}

func (o *Order) Milestones() Milestones {
	return o.milestones
}

func (o *Order) PaymentMethod() ledger.Method {
	return o.paymentMethod
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) Amounts() Amounts {
	return o.amounts
}

func (o *Order) PickupPoint() *kernel.GeoPoint {
	return o.pickup
}

func (o *Order) DropPoint() *kernel.GeoPoint {
	return o.drop
}

func (o *Order) Store() Contact {
	return o.store
}

func (o *Order) Customer() Contact {
	return o.customer
}

func (o *Order) SkippedBy() []kernel.UUID {
	return o.skippedBy
}

func (o *Order) DeliveryNotes() string {
	return o.deliveryNotes
}

func (o *Order) Rating() *int {
	return o.rating
}

func (o *Order) Version() int64 {
	return o.version
}

// SetContacts sets the store and customer contact blocks.
func (o *Order) SetContacts(store Contact, customer Contact) {
	o.store = store
	o.customer = customer
}

func (o *Order) IsAssignedTo(courierID kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(courierID)
}

func (o *Order) HasSkipped(courierID kernel.UUID) bool {
	for _, id := range o.skippedBy {
		if id.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// Accept lets a courier claim an open order.
func (o *Order) Accept(courierID kernel.UUID, at time.Time) error {
	if err := o.claim(courierID, at); err != nil {
		return err
	}
	o.record(EventAccepted, at, map[string]any{"courierId": courierID.String()})
	return nil
}

// AssignTo is the dispatcher path. Dispatchers only hand out prepaid orders;
// cash orders are picked by couriers through Accept.
func (o *Order) AssignTo(courierID kernel.UUID, at time.Time) error {
	if o.paymentStatus != PaymentSuccess {
		return errs.NewConflictError("order", "payment is not completed")
	}
	if err := o.claim(courierID, at); err != nil {
		return err
	}
	o.record(EventAssigned, at, map[string]any{"courierId": courierID.String()})
	return nil
}

// Skip records that a courier declined the order. Skipping twice is a no-op;
// the returned flag tells whether the skip list changed.
func (o *Order) Skip(courierID kernel.UUID, at time.Time) (bool, error) {
	if err := courierID.Validate(); err != nil {
		return false, err
	}
	if !o.stage.IsOpen() || o.courierID != nil {
		return false, errs.NewConflictError("order", "is no longer open")
	}
	if o.HasSkipped(courierID) {
		return false, nil
	}

	o.skippedBy = append(o.skippedBy, courierID)
	o.record(EventSkipped, at, map[string]any{"courierId": courierID.String()})
	return true, nil
}

func (o *Order) Pickup(courierID kernel.UUID, at time.Time) error {
	return o.advance(courierID, StagePickedUp, EventPickedUp, at)
}

func (o *Order) StartNavigation(courierID kernel.UUID, at time.Time) error {
	return o.advance(courierID, StageNavigating, EventNavigationStarted, at)
}

func (o *Order) MarkReached(courierID kernel.UUID, at time.Time) error {
	return o.advance(courierID, StageReached, EventReached, at)
}

// Complete finishes the delivery. Delivered is terminal.
func (o *Order) Complete(courierID kernel.UUID, notes string, at time.Time) error {
	if err := o.ensureTransition(courierID, StageDelivered); err != nil {
		return err
	}
	o.deliveryNotes = strings.TrimSpace(notes)
	o.moveTo(StageDelivered, at)
	o.record(EventDelivered, at, map[string]any{
		"courierId": courierID.String(),
		"number":    o.number,
	})
	return nil
}

// MarkPrepaid records a digital payment captured by the storefront before
// dispatch.
func (o *Order) MarkPrepaid() error {
	if o.paymentMethod != ledger.MethodDigital {
		return errs.NewConflictError("order", "only digital orders can be prepaid")
	}
	o.paymentStatus = PaymentSuccess
	return nil
}

// MarkCashCollected flags the order as paid after cash was taken at the door.
func (o *Order) MarkCashCollected() error {
	if o.stage != StageDelivered {
		return errs.NewConflictError("order", "cash can only be collected on delivery")
	}
	o.paymentStatus = PaymentSuccess
	return nil
}

// Rate stores the customer's 1..5 score for a delivered order, once.
func (o *Order) Rate(score int) error {
	if score < MinRating || score > MaxRating {
		return errs.NewValueIsOutOfRangeError("score", score, MinRating, MaxRating)
	}
	if o.stage != StageDelivered {
		return errs.NewConflictError("order", "is not delivered yet")
	}
	if o.rating != nil {
		return errs.NewConflictError("order", "is already rated")
	}
	o.rating = &score
	return nil
}

// CanBeViewedBy reports whether a courier may open the tracking view: the
// assigned courier always, anyone else only while the order is open.
func (o *Order) CanBeViewedBy(courierID kernel.UUID) bool {
	if o.courierID == nil {
		return o.stage.IsOpen()
	}
	return o.courierID.IsEqual(courierID)
}

func (o *Order) claim(courierID kernel.UUID, at time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.courierID != nil {
		return errs.NewConflictError("order", "is already assigned")
	}
	if !o.stage.CanTransitionTo(StageAccepted) {
		return errs.NewConflictError("order", fmt.Sprintf("cannot be accepted in stage %s", o.stage))
	}

	o.courierID = &courierID
	o.moveTo(StageAccepted, at)
	return nil
}

func (o *Order) advance(courierID kernel.UUID, next Stage, event string, at time.Time) error {
	if err := o.ensureTransition(courierID, next); err != nil {
		return err
	}
	o.moveTo(next, at)
	o.record(event, at, map[string]any{"courierId": courierID.String()})
	return nil
}

// ensureTransition checks the caller first, then the stage.
func (o *Order) ensureTransition(courierID kernel.UUID, next Stage) error {
	if !o.IsAssignedTo(courierID) {
		return errs.NewForbiddenError("order "+o.id.String(), courierID.String())
	}
	if !o.stage.CanTransitionTo(next) {
		return errs.NewConflictError("order",
			fmt.Sprintf("cannot move from %s to %s", o.stage, next))
	}
	return nil
}

func (o *Order) moveTo(next Stage, at time.Time) {
	o.milestones = o.milestones.stamp(next, at)
	o.stage = next
}

func (o *Order) record(name string, at time.Time, payload map[string]any) {
	payload["orderId"] = o.id.String()
	payload["status"] = o.Status()
	o.RecordEvent(kernel.NewDomainEvent(name, o.id, at, payload))
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return errs.NewValueIsRequiredError("number")
	}
	o.number = number
	return nil
}

func (o *Order) setPaymentMethod(method ledger.Method) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setPaymentStatus(status PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.paymentStatus = status
	return nil
}
