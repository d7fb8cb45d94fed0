package entity

import "time"

// Event represents a domain event.
type Event interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// Aggregate represents a domain aggregate root.
type Aggregate interface {
	GetAggregateID() string
	GetVersion() int
	PullEvents() []Event
}

// AggregateBase holds the persistence version and the buffer of events
// recorded since the last PullEvents.
type AggregateBase struct {
	version int
	pending []Event
}

func (a *AggregateBase) GetVersion() int {
	return a.version
}

// SetVersion is called by repositories after a load or a successful save.
func (a *AggregateBase) SetVersion(v int) {
	a.version = v
}

// PullEvents hands over the recorded events and empties the buffer.
func (a *AggregateBase) PullEvents() []Event {
	events := a.pending
	a.pending = nil
	if events == nil {
		return []Event{}
	}
	return events
}

func (a *AggregateBase) record(e Event) {
	a.pending = append(a.pending, e)
}
