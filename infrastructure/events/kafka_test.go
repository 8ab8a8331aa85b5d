package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/aegis-admin-api/internal/config"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
	deadline bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, w.deadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherRoutesByStream(t *testing.T) {
	trial := &fakeWriter{}
	health := &fakeWriter{}
	publisher := newKafkaPublisher(map[Stream]messageWriter{
		StreamTrial:  trial,
		StreamHealth: health,
	}, time.Second)

	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := publisher.Publish(context.Background(),
		Event{Stream: StreamTrial, Type: TypePOCExtended, Key: "poc-acme-1a2b3c4d", OccurredAt: occurred, Data: map[string]int{"days_remaining": 44}},
		Event{Stream: StreamHealth, Type: TypeHealthChurnAlert, Key: "org_7", OccurredAt: occurred},
	)
	require.NoError(t, err)

	require.Len(t, trial.messages, 1)
	assert.Equal(t, "poc-acme-1a2b3c4d", string(trial.messages[0].Key))
	assert.Equal(t, "type", trial.messages[0].Headers[0].Key)
	assert.Equal(t, TypePOCExtended, string(trial.messages[0].Headers[0].Value))
	assert.JSONEq(t,
		`{"type":"poc.extended","key":"poc-acme-1a2b3c4d","occurred_at":"2026-03-01T12:00:00Z","data":{"days_remaining":44}}`,
		string(trial.messages[0].Value))
	assert.True(t, trial.deadline)

	require.Len(t, health.messages, 1)
	assert.Equal(t, "org_7", string(health.messages[0].Key))
}

func TestKafkaPublisherErrors(t *testing.T) {
	failing := &fakeWriter{err: errors.New("broker down")}
	publisher := newKafkaPublisher(map[Stream]messageWriter{StreamTrial: failing}, 0)

	err := publisher.Publish(context.Background(), Event{Stream: StreamTrial, Type: TypePOCCreated, Key: "poc-x"})
	assert.ErrorContains(t, err, "broker down")

	err = publisher.Publish(context.Background(), Event{Stream: StreamHealth, Type: TypeHealthChurnAlert})
	assert.ErrorContains(t, err, "stream desconhecido")

	require.NoError(t, publisher.Close())
	assert.True(t, failing.closed)
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(config.Events{})
	assert.Error(t, err)

	publisher, err := NewKafkaPublisher(config.Events{Brokers: []string{"localhost:9092"}, TrialTopic: "poc-lifecycle", HealthTopic: "org-health"})
	require.NoError(t, err)
	assert.Len(t, publisher.writers, 2)
	assert.NoError(t, publisher.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypePOCCreated}))
	assert.NoError(t, p.Close())
}
