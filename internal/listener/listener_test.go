package listener_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/listener"
	"github.com/egannguyen/purchase-orders/internal/messaging"
	"github.com/egannguyen/purchase-orders/internal/metrics"
)

var at = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeSubscriber struct {
	handlers map[string][]messaging.Handler
}

var _ messaging.Subscriber = (*fakeSubscriber)(nil)

func (f *fakeSubscriber) Subscribe(eventType string, h messaging.Handler) {
	if f.handlers == nil {
		f.handlers = make(map[string][]messaging.Handler)
	}
	f.handlers[eventType] = append(f.handlers[eventType], h)
}

func (f *fakeSubscriber) deliver(t *testing.T, e entity.Event) {
	t.Helper()
	for _, h := range f.handlers[e.EventType()] {
		require.NoError(t, h(context.Background(), e))
	}
}

func TestRegister_WiresListeners(t *testing.T) {
	logger, hook := test.NewNullLogger()
	m := metrics.New()
	sub := &fakeSubscriber{}
	listener.Register(sub, listener.NewConfirmationNotifier(logger), listener.NewAnalytics(m, logger))

	assert.Len(t, sub.handlers[entity.EventTypeOrderCreated], 2)
	assert.Len(t, sub.handlers[entity.EventTypeItemAddedToOrder], 1)
	assert.Len(t, sub.handlers[entity.EventTypeOrderTotalRecalculated], 1)

	sub.deliver(t, entity.OrderCreated{OrderID: "ORD-100", Currency: "USD", Timestamp: at})
	sub.deliver(t, entity.ItemAddedToOrder{OrderID: "ORD-100", ProductID: "ABC123", Quantity: 2, Timestamp: at})
	sub.deliver(t, entity.ItemAddedToOrder{OrderID: "ORD-100", ProductID: "XYZ999", Quantity: 1, Timestamp: at})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues(entity.EventTypeOrderCreated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues(entity.EventTypeItemAddedToOrder)))

	var confirmations int
	for _, e := range hook.AllEntries() {
		if e.Message == "Sending order confirmation" {
			confirmations++
			assert.Equal(t, "ORD-100", e.Data["order_id"])
		}
	}
	assert.Equal(t, 1, confirmations)
}

func TestConfirmationNotifier_IgnoresOtherEvents(t *testing.T) {
	logger, hook := test.NewNullLogger()
	n := listener.NewConfirmationNotifier(logger)
	require.NoError(t, n.OnOrderCreated(context.Background(), entity.ItemAddedToOrder{OrderID: "ORD-100", Timestamp: at}))
	assert.Empty(t, hook.AllEntries())
}
