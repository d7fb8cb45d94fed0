package messaging_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/messaging"
)

var at = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestEnvelope_RoundTrip(t *testing.T) {
	in := entity.OrderTotalRecalculated{
		OrderID:   "ORD-100",
		Total:     decimal.RequireFromString("50.00"),
		Currency:  "USD",
		Timestamp: at,
	}

	env, err := messaging.NewEnvelope(in)
	require.NoError(t, err)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, entity.EventTypeOrderTotalRecalculated, env.Type)
	assert.Equal(t, "ORD-100", env.AggregateID)
	assert.Equal(t, at, env.OccurredAt)

	out, err := env.Event()
	require.NoError(t, err)
	got, ok := out.(entity.OrderTotalRecalculated)
	require.True(t, ok)
	assert.True(t, in.Total.Equal(got.Total))
	assert.Equal(t, in.OrderID, got.OrderID)
}

func TestNewEnvelope_RejectsUnstampedEvent(t *testing.T) {
	_, err := messaging.NewEnvelope(entity.OrderCreated{OrderID: "ORD-100", Currency: "USD"})
	assert.Error(t, err)
}

func TestNoopBus_Validates(t *testing.T) {
	bus := messaging.NoopBus{}
	ok := []entity.Event{entity.OrderCreated{OrderID: "ORD-100", Currency: "USD", Timestamp: at}}
	assert.NoError(t, bus.Publish(context.Background(), ok))
	assert.NoError(t, bus.Publish(context.Background(), nil))

	bad := append(ok, entity.ItemAddedToOrder{OrderID: "ORD-100"})
	assert.Error(t, bus.Publish(context.Background(), bad))
	assert.Error(t, bus.Publish(context.Background(), []entity.Event{nil}))
}

func TestRouter_DispatchRunsAllHandlersInOrder(t *testing.T) {
	r := messaging.NewRouter()
	var calls []string
	r.Subscribe(entity.EventTypeOrderCreated, func(context.Context, entity.Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	r.Subscribe(entity.EventTypeOrderCreated, func(context.Context, entity.Event) error {
		calls = append(calls, "second")
		return nil
	})
	r.Subscribe(entity.EventTypeItemAddedToOrder, func(context.Context, entity.Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := r.Dispatch(context.Background(), entity.OrderCreated{OrderID: "ORD-100", Timestamp: at})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, []string{entity.EventTypeOrderCreated, entity.EventTypeItemAddedToOrder}, r.Types())
}

func TestRouter_NoHandlers(t *testing.T) {
	r := messaging.NewRouter()
	assert.NoError(t, r.Dispatch(context.Background(), entity.OrderCreated{OrderID: "ORD-100", Timestamp: at}))
	assert.Empty(t, r.Types())
}
