package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egannguyen/purchase-orders/internal/entity"
)

var at = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestToMessages_KeysByAggregate(t *testing.T) {
	events := []entity.Event{
		entity.OrderCreated{OrderID: "ORD-100", Currency: "USD", Timestamp: at},
		entity.ItemAddedToOrder{OrderID: "ORD-100", ProductID: "ABC123", Quantity: 2, Timestamp: at},
	}

	msgs, err := toMessages(events)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	for i, msg := range msgs {
		assert.Equal(t, "ORD-100", string(msg.Key))
		require.Len(t, msg.Headers, 1)
		assert.Equal(t, events[i].EventType(), string(msg.Headers[0].Value))
		assert.Equal(t, at, msg.Time)

		decoded, err := fromMessage(msg)
		require.NoError(t, err)
		assert.Equal(t, events[i], decoded)
	}
}

func TestToMessages_RejectsInvalidEvent(t *testing.T) {
	_, err := toMessages([]entity.Event{entity.OrderCreated{OrderID: "ORD-100"}})
	assert.Error(t, err)
}

func TestFromMessage_Garbage(t *testing.T) {
	_, err := fromMessage(kafkaGo.Message{Value: []byte("not json")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal envelope")

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(errors.Cause(err), &syntaxErr))
}

// Runs against a real broker when ORDERS_TEST_KAFKA holds a broker list.
func TestBus_PublishConsume(t *testing.T) {
	brokers := os.Getenv("ORDERS_TEST_KAFKA")
	if brokers == "" {
		t.Skip("ORDERS_TEST_KAFKA not set")
	}
	topic := fmt.Sprintf("orders-test-%d", time.Now().UnixNano())
	bus := NewBus(strings.Split(brokers, ","), topic, logrus.New())
	t.Cleanup(func() { bus.Close() })

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	bus.Subscribe(entity.EventTypeItemAddedToOrder, func(_ context.Context, e entity.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(entity.ItemAddedToOrder).ProductID)
		if len(got) == 2 {
			close(done)
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	go bus.Consume(ctx, topic+"-group")

	require.NoError(t, bus.Publish(ctx, []entity.Event{
		entity.ItemAddedToOrder{OrderID: "ORD-100", ProductID: "ABC123", Quantity: 1, Timestamp: at},
		entity.ItemAddedToOrder{OrderID: "ORD-100", ProductID: "XYZ999", Quantity: 1, Timestamp: at},
	}))

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("timed out waiting for events")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ABC123", "XYZ999"}, got)
}
