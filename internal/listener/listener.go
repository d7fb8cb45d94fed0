package listener

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/messaging"
	"github.com/egannguyen/purchase-orders/internal/metrics"
)

// ConfirmationNotifier sends the order confirmation notice. Delivery is a
// log line for now.
type ConfirmationNotifier struct {
	log logrus.FieldLogger
}

func NewConfirmationNotifier(log logrus.FieldLogger) *ConfirmationNotifier {
	return &ConfirmationNotifier{log: log.WithField("listener", "confirmation")}
}

func (n *ConfirmationNotifier) OnOrderCreated(_ context.Context, e entity.Event) error {
	created, ok := e.(entity.OrderCreated)
	if !ok {
		return nil
	}
	n.log.WithFields(logrus.Fields{
		"order_id": created.OrderID,
		"currency": created.Currency,
	}).Info("Sending order confirmation")
	return nil
}

// Analytics counts domain events per type.
type Analytics struct {
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewAnalytics(m *metrics.Metrics, log logrus.FieldLogger) *Analytics {
	return &Analytics{metrics: m, log: log.WithField("listener", "analytics")}
}

func (a *Analytics) Track(_ context.Context, e entity.Event) error {
	a.metrics.Events.WithLabelValues(e.EventType()).Inc()
	a.log.WithFields(logrus.Fields{
		"event_type": e.EventType(),
		"order_id":   e.AggregateID(),
	}).Debug("Tracked event")
	return nil
}

// Register subscribes the notifier to order creation and analytics to every
// event type.
func Register(sub messaging.Subscriber, n *ConfirmationNotifier, a *Analytics) {
	sub.Subscribe(entity.EventTypeOrderCreated, n.OnOrderCreated)
	for _, t := range entity.KnownEventTypes() {
		sub.Subscribe(t, a.Track)
	}
}
