package inproc_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/messaging/inproc"
)

var at = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newBus(t *testing.T) (*inproc.Bus, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	bus, err := inproc.NewBus(logger)
	require.NoError(t, err)
	t.Cleanup(func() { bus.Close() })
	return bus, hook
}

func TestBus_DeliversInPublishOrder(t *testing.T) {
	bus, _ := newBus(t)

	var mu sync.Mutex
	var got []string
	record := func(_ context.Context, e entity.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.EventType())
		return nil
	}
	for _, typ := range entity.KnownEventTypes() {
		bus.Subscribe(typ, record)
	}

	events := []entity.Event{
		entity.OrderCreated{OrderID: "ORD-100", Currency: "USD", Timestamp: at},
		entity.ItemAddedToOrder{OrderID: "ORD-100", ProductID: "ABC123", Quantity: 2, Timestamp: at},
		entity.OrderTotalRecalculated{OrderID: "ORD-100", Currency: "USD", Timestamp: at},
	}
	require.NoError(t, bus.Publish(context.Background(), events))

	// Publish returns once every message is acked.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		entity.EventTypeOrderCreated,
		entity.EventTypeItemAddedToOrder,
		entity.EventTypeOrderTotalRecalculated,
	}, got)
}

func TestBus_HandlerFailureIsLoggedAndSkipped(t *testing.T) {
	bus, hook := newBus(t)

	var delivered int
	bus.Subscribe(entity.EventTypeOrderCreated, func(context.Context, entity.Event) error {
		delivered++
		return errors.New("mailer down")
	})

	events := []entity.Event{
		entity.OrderCreated{OrderID: "ORD-100", Currency: "USD", Timestamp: at},
		entity.OrderCreated{OrderID: "ORD-101", Currency: "USD", Timestamp: at},
	}
	require.NoError(t, bus.Publish(context.Background(), events))
	assert.Equal(t, 2, delivered)

	var failures int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "Error handling message" {
			failures++
		}
	}
	assert.Equal(t, 2, failures)
}

func TestBus_RejectsInvalidEvent(t *testing.T) {
	bus, _ := newBus(t)
	err := bus.Publish(context.Background(), []entity.Event{entity.OrderCreated{OrderID: "ORD-100"}})
	assert.Error(t, err)
}
