package messaging_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/lunargate/lunargate/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	mu       sync.Mutex
	channels map[string]chan *message.Message
	closed   bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{channels: make(map[string]chan *message.Message)}
}

func (m *mockSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *message.Message, 16)
	m.channels[topic] = ch

	return ch, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

func (m *mockSubscriber) send(topic string, msg *message.Message) {
	m.mu.Lock()
	ch := m.channels[topic]
	m.mu.Unlock()

	ch <- msg
}

func waitAcked(t *testing.T, msg *message.Message) {
	t.Helper()

	select {
	case <-msg.Acked():
	case <-time.After(time.Second):
		t.Fatal("message was not acked in time")
	}
}

func waitNacked(t *testing.T, msg *message.Message) {
	t.Helper()

	select {
	case <-msg.Nacked():
	case <-time.After(time.Second):
		t.Fatal("message was not nacked in time")
	}
}

func TestConsumer(t *testing.T) {
	t.Run("dispatches decoded events to the handler and acks", func(t *testing.T) {
		sub := newMockSubscriber()

		received := make(chan *testEvent, 1)
		handler := func(_ context.Context, event *testEvent) error {
			received <- event

			return nil
		}

		consumer := messaging.NewConsumer(sub, "gateway.requests", handler, zap.NewNop())
		require.NoError(t, consumer.Start(context.Background()))
		defer func() { _ = consumer.Shutdown() }()

		msg := message.NewMessage("m1", []byte(`{"requestId":"r1","path":"/topics"}`))
		sub.send("gateway.requests", msg)

		select {
		case event := <-received:
			assert.Equal(t, "r1", event.RequestID)
			assert.Equal(t, "/topics", event.Path)
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked in time")
		}

		waitAcked(t, msg)
	})

	t.Run("nacks undecodable payloads", func(t *testing.T) {
		sub := newMockSubscriber()
		handler := func(_ context.Context, _ *testEvent) error { return nil }

		consumer := messaging.NewConsumer(sub, "gateway.requests", handler, zap.NewNop())
		require.NoError(t, consumer.Start(context.Background()))
		defer func() { _ = consumer.Shutdown() }()

		msg := message.NewMessage("m1", []byte(`not json`))
		sub.send("gateway.requests", msg)

		waitNacked(t, msg)
	})

	t.Run("nacks when the handler fails", func(t *testing.T) {
		sub := newMockSubscriber()
		handler := func(_ context.Context, _ *testEvent) error {
			return errors.New("db down")
		}

		consumer := messaging.NewConsumer(sub, "gateway.requests", handler, zap.NewNop())
		require.NoError(t, consumer.Start(context.Background()))
		defer func() { _ = consumer.Shutdown() }()

		msg := message.NewMessage("m1", []byte(`{"requestId":"r1"}`))
		sub.send("gateway.requests", msg)

		waitNacked(t, msg)
	})
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and shuts down all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		handler := func(_ context.Context, _ *testEvent) error { return nil }

		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		group.Add(messaging.NewConsumer(sub, "a", handler, zap.NewNop()))
		group.Add(messaging.NewConsumer(sub, "b", handler, zap.NewNop()))

		require.NoError(t, group.Start(context.Background()))
		require.NoError(t, group.Shutdown())
		assert.True(t, sub.closed)
	})
}
