package inproc

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/messaging"
)

const topic = "orders.events"

// Bus delivers events inside the process over a watermill GoChannel.
// Every event goes through one topic read by one goroutine, and Publish
// blocks until each message is acked, so handlers observe publish order.
type Bus struct {
	*messaging.Router
	pubsub *gochannel.GoChannel
	log    logrus.FieldLogger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var (
	_ messaging.EventBus   = (*Bus)(nil)
	_ messaging.Subscriber = (*Bus)(nil)
)

// NewBus starts the bus. Close stops it.
func NewBus(log logrus.FieldLogger) (*Bus, error) {
	log = log.WithField("component", "inproc_bus")
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, newLogrusAdapter(log))

	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := pubsub.Subscribe(ctx, topic)
	if err != nil {
		cancel()
		return nil, errors.Wrapf(err, "failed to subscribe to %s", topic)
	}

	b := &Bus{
		Router: messaging.NewRouter(),
		pubsub: pubsub,
		log:    log,
		cancel: cancel,
	}
	b.wg.Add(1)
	go b.run(msgs)
	return b, nil
}

func (b *Bus) Publish(_ context.Context, events []entity.Event) error {
	for _, e := range events {
		env, err := messaging.NewEnvelope(e)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(env)
		if err != nil {
			return errors.Wrap(err, "failed to marshal envelope")
		}
		msg := message.NewMessage(env.ID, payload)
		msg.Metadata.Set("event_type", env.Type)
		if err := b.pubsub.Publish(topic, msg); err != nil {
			return errors.Wrapf(err, "failed to publish %s", env.Type)
		}
	}
	return nil
}

func (b *Bus) run(msgs <-chan *message.Message) {
	defer b.wg.Done()
	for msg := range msgs {
		b.handle(msg)
		msg.Ack()
	}
}

// handle never fails the message; a failed handler must not block the
// events behind it.
func (b *Bus) handle(msg *message.Message) {
	var env messaging.Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		b.log.WithError(err).WithField("message_uuid", msg.UUID).Error("Error decoding message")
		return
	}
	event, err := env.Event()
	if err != nil {
		b.log.WithError(err).WithField("message_uuid", msg.UUID).Error("Error decoding event")
		return
	}
	if err := b.Dispatch(msg.Context(), event); err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"event_type":   env.Type,
			"aggregate_id": env.AggregateID,
		}).Error("Error handling message")
	}
}

// Close stops delivery and waits for the consumer to drain.
func (b *Bus) Close() error {
	b.cancel()
	err := b.pubsub.Close()
	b.wg.Wait()
	return err
}
