package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/purchase-orders/internal/entity"
)

func TestDecodeEvent_ByTypeTag(t *testing.T) {
	order := newTestOrder(t, "ORD-100", "USD")
	require.NoError(t, order.AddItem(mustItem(t, mustSKU(t, "ABC123"), "10.00", "USD", 2)))

	for _, e := range order.PullEvents() {
		payload, err := json.Marshal(e)
		require.NoError(t, err)

		decoded, err := entity.DecodeEvent(e.EventType(), payload)
		require.NoError(t, err)
		assert.Equal(t, e.EventType(), decoded.EventType())
		assert.Equal(t, "ORD-100", decoded.AggregateID())
		assert.True(t, e.OccurredAt().Equal(decoded.OccurredAt()))
	}
}

func TestOrderTotalRecalculated_TotalIsFixedPointNumber(t *testing.T) {
	e := entity.OrderTotalRecalculated{
		OrderID:   "ORD-100",
		Total:     decimal.RequireFromString("20"),
		Currency:  "USD",
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	payload, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"total":20.00`)
	assert.Contains(t, string(payload), `"order_id":"ORD-100"`)

	decoded, err := entity.DecodeEvent(e.EventType(), payload)
	require.NoError(t, err)
	got, ok := decoded.(entity.OrderTotalRecalculated)
	require.True(t, ok)
	assert.Equal(t, "20.00", got.Total.StringFixed(2))
	assert.Equal(t, "USD", got.Currency)
}

func TestDecodeEvent_UnknownType(t *testing.T) {
	_, err := entity.DecodeEvent("order.shipped", []byte(`{}`))
	assert.ErrorContains(t, err, "unknown event type")
}

func TestKnownEventTypes(t *testing.T) {
	assert.ElementsMatch(t, []string{
		"order.created", "order.item_added", "order.total_recalculated",
	}, entity.KnownEventTypes())
}
