package messaging

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/egannguyen/purchase-orders/internal/entity"
)

// EventBus publishes domain events in the order given.
type EventBus interface {
	Publish(ctx context.Context, events []entity.Event) error
}

// Handler reacts to a single delivered event.
type Handler func(ctx context.Context, event entity.Event) error

// Subscriber registers handlers per event type.
type Subscriber interface {
	Subscribe(eventType string, handler Handler)
}

// Envelope is the wire form of an event.
type Envelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Validate rejects events that cannot be routed.
func Validate(event entity.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}
	if event.EventType() == "" {
		return errors.New("event has no type")
	}
	if event.OccurredAt().IsZero() {
		return errors.Errorf("event %s has no timestamp", event.EventType())
	}
	return nil
}

func NewEnvelope(event entity.Event) (Envelope, error) {
	if err := Validate(event); err != nil {
		return Envelope{}, err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, errors.Wrapf(err, "failed to marshal %s", event.EventType())
	}
	return Envelope{
		ID:          uuid.NewString(),
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     payload,
	}, nil
}

// Event decodes the payload into its concrete event type.
func (e Envelope) Event() (entity.Event, error) {
	return entity.DecodeEvent(e.Type, e.Payload)
}

// Router fans events out to the handlers subscribed to their type.
// Transports embed it to implement Subscriber.
type Router struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string][]Handler)}
}

func (r *Router) Subscribe(eventType string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[eventType] = append(r.handlers[eventType], handler)
}

// Dispatch runs every handler for the event, in subscription order. All
// handlers run even if one fails; the first error is returned.
func (r *Router) Dispatch(ctx context.Context, event entity.Event) error {
	r.mu.RLock()
	handlers := append([]Handler(nil), r.handlers[event.EventType()]...)
	r.mu.RUnlock()

	var first error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil && first == nil {
			first = errors.Wrapf(err, "handler for %s failed", event.EventType())
		}
	}
	return first
}

// Types lists the event types with at least one handler.
func (r *Router) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NoopBus validates events and drops them.
type NoopBus struct{}

func (NoopBus) Publish(_ context.Context, events []entity.Event) error {
	for _, e := range events {
		if err := Validate(e); err != nil {
			return err
		}
	}
	return nil
}
