package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventTypeOrderCreated           = "order.created"
	EventTypeItemAddedToOrder       = "order.item_added"
	EventTypeOrderTotalRecalculated = "order.total_recalculated"
)

// OrderCreated is recorded once, when the aggregate is created.
type OrderCreated struct {
	OrderID   string    `json:"order_id"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e OrderCreated) EventType() string     { return EventTypeOrderCreated }
func (e OrderCreated) AggregateID() string   { return e.OrderID }
func (e OrderCreated) OccurredAt() time.Time { return e.Timestamp }

// ItemAddedToOrder carries the quantity of the add request, not the merged
// line quantity.
type ItemAddedToOrder struct {
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e ItemAddedToOrder) EventType() string     { return EventTypeItemAddedToOrder }
func (e ItemAddedToOrder) AggregateID() string   { return e.OrderID }
func (e ItemAddedToOrder) OccurredAt() time.Time { return e.Timestamp }

// OrderTotalRecalculated follows every ItemAddedToOrder with the
// post-mutation total.
type OrderTotalRecalculated struct {
	OrderID   string          `json:"order_id"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	Timestamp time.Time       `json:"occurred_at"`
}

func (e OrderTotalRecalculated) EventType() string     { return EventTypeOrderTotalRecalculated }
func (e OrderTotalRecalculated) AggregateID() string   { return e.OrderID }
func (e OrderTotalRecalculated) OccurredAt() time.Time { return e.Timestamp }

// MarshalJSON writes the total as a JSON number with two decimal places.
func (e OrderTotalRecalculated) MarshalJSON() ([]byte, error) {
	type plain OrderTotalRecalculated
	return json.Marshal(struct {
		plain
		Total json.Number `json:"total"`
	}{plain(e), json.Number(e.Total.StringFixed(2))})
}

var eventDecoders = map[string]func(payload []byte) (Event, error){
	EventTypeOrderCreated:           decodeAs[OrderCreated],
	EventTypeItemAddedToOrder:       decodeAs[ItemAddedToOrder],
	EventTypeOrderTotalRecalculated: decodeAs[OrderTotalRecalculated],
}

func decodeAs[E Event](payload []byte) (Event, error) {
	var e E
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeEvent turns a JSON payload back into the concrete event for its type tag.
func DecodeEvent(eventType string, payload []byte) (Event, error) {
	decode, ok := eventDecoders[eventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	e, err := decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", eventType, err)
	}
	return e, nil
}

// KnownEventTypes lists every event type tag the aggregate can record.
func KnownEventTypes() []string {
	return []string{
		EventTypeOrderCreated,
		EventTypeItemAddedToOrder,
		EventTypeOrderTotalRecalculated,
	}
}
