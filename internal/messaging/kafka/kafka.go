package kafka

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/messaging"
)

const headerEventType = "event_type"

// Bus publishes events to a single Kafka topic keyed by aggregate id, so
// events of one order land on one partition in publish order. Consume
// delivers them to the handlers registered through Subscribe.
type Bus struct {
	*messaging.Router
	writer  *kafkaGo.Writer
	brokers []string
	topic   string
	log     logrus.FieldLogger
}

var (
	_ messaging.EventBus   = (*Bus)(nil)
	_ messaging.Subscriber = (*Bus)(nil)
)

// NewBus creates a Kafka event bus.
func NewBus(brokers []string, topic string, log logrus.FieldLogger) *Bus {
	return &Bus{
		Router: messaging.NewRouter(),
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireAll,
			AllowAutoTopicCreation: true,
		},
		brokers: brokers,
		topic:   topic,
		log:     log.WithField("topic", topic),
	}
}

func (b *Bus) Publish(ctx context.Context, events []entity.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs, err := toMessages(events)
	if err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrapf(err, "failed to publish %d events", len(msgs))
	}
	return nil
}

func toMessages(events []entity.Event) ([]kafkaGo.Message, error) {
	msgs := make([]kafkaGo.Message, 0, len(events))
	for _, e := range events {
		env, err := messaging.NewEnvelope(e)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(env)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal envelope")
		}
		msgs = append(msgs, kafkaGo.Message{
			Key:     []byte(env.AggregateID),
			Value:   payload,
			Headers: []kafkaGo.Header{{Key: headerEventType, Value: []byte(env.Type)}},
			Time:    env.OccurredAt,
		})
	}
	return msgs, nil
}

func fromMessage(msg kafkaGo.Message) (entity.Event, error) {
	var env messaging.Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal envelope")
	}
	return env.Event()
}

// Consume reads the topic as member of groupID until ctx is cancelled.
// Undecodable messages and handler failures are logged and skipped.
func (b *Bus) Consume(ctx context.Context, groupID string) error {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: b.brokers,
		Topic:   b.topic,
		GroupID: groupID,
	})
	defer reader.Close()

	log := b.log.WithField("group", groupID)
	log.Info("Consumer started")
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Consumer shutting down")
				return nil
			}
			log.WithError(err).Error("Error reading message")
			continue
		}

		event, err := fromMessage(msg)
		if err != nil {
			log.WithError(err).WithField("offset", msg.Offset).Error("Error decoding message")
			continue
		}
		if err := b.Dispatch(ctx, event); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"event_type":   event.EventType(),
				"aggregate_id": event.AggregateID(),
			}).Error("Error handling message")
		}
	}
}

func (b *Bus) Close() error {
	return b.writer.Close()
}
