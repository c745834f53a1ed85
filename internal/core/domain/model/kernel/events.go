package kernel

import (
	"time"
)

// DomainEvent is a fact recorded by an aggregate during a state change.
// Events are persisted together with the change and delivered later.
type DomainEvent struct {
	id          UUID
	name        string
	aggregateID UUID
	occurredAt  time.Time
	payload     map[string]any
}

func NewDomainEvent(name string, aggregateID UUID, occurredAt time.Time, payload map[string]any) DomainEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return DomainEvent{
		id:          NewUUID(),
		name:        name,
		aggregateID: aggregateID,
		occurredAt:  occurredAt.UTC(),
		payload:     payload,
	}
}

func (e DomainEvent) ID() UUID {
	return e.id
}

// Name is the routing key, e.g. "order.accepted".
func (e DomainEvent) Name() string {
	return e.name
}

func (e DomainEvent) AggregateID() UUID {
	return e.aggregateID
}

func (e DomainEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e DomainEvent) Payload() map[string]any {
	return e.payload
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}

// EventRecorder is embedded into aggregates to collect pending events.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) RecordEvent(e DomainEvent) {
	r.events = append(r.events, e)
}

func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
