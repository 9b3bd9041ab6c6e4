package events

import "time"

// DomainEvent is a fact recorded by an aggregate during a state transition.
// Events are drained into the outbox after a successful save and published
// asynchronously; their delivery never gates the transition itself.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// EventRecorder collects pending events. Aggregates embed it; repositories
// must not persist it, which is why the storage layer resets it on clone.
type EventRecorder struct {
	pending []DomainEvent
}

// Record appends one or more events. Nil events are dropped.
func (r *EventRecorder) Record(evs ...DomainEvent) {
	for _, ev := range evs {
		if ev != nil {
			r.pending = append(r.pending, ev)
		}
	}
}

// PendingEvents returns a copy of the recorded events in record order.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return append([]DomainEvent(nil), r.pending...)
}

// ClearEvents drops the recorded events, typically right after they were
// handed to the outbox.
func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
