package main

import (
	"github.com/egannguyen/purchase-orders/internal/listener"
	"github.com/egannguyen/purchase-orders/internal/messaging"
	"github.com/egannguyen/purchase-orders/internal/messaging/inproc"
	"github.com/egannguyen/purchase-orders/internal/messaging/kafka"
)

// openBus selects the event bus. With the in-process bus the listeners run
// inside this process; with Kafka they run in the serve consumer.
func (a *app) openBus() error {
	notifier := listener.NewConfirmationNotifier(a.log)
	analytics := listener.NewAnalytics(a.metrics, a.log)

	switch a.cfg.Bus {
	case "noop":
		a.bus = messaging.NoopBus{}
	case "kafka":
		bus := kafka.NewBus(a.cfg.KafkaBrokers, a.cfg.KafkaTopic, a.log)
		a.onClose(bus.Close)
		listener.Register(bus, notifier, analytics)
		a.bus, a.kafka = bus, bus
	default:
		bus, err := inproc.NewBus(a.log)
		if err != nil {
			return err
		}
		a.onClose(bus.Close)
		listener.Register(bus, notifier, analytics)
		a.bus = bus
	}
	a.log.WithField("bus", a.cfg.Bus).Info("Event bus ready")
	return nil
}
