package events

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/aegis-admin-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escreve cada stream em seu tópico, chaveado pela entidade para manter a ordem
type KafkaPublisher struct {
	writers      map[Stream]messageWriter
	writeTimeout time.Duration
}

func NewKafkaPublisher(cfg config.Events) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("EVENTS_BROKERS vazio")
	}

	newWriter := func(topic string) messageWriter {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		}
	}

	return newKafkaPublisher(map[Stream]messageWriter{
		StreamTrial:  newWriter(cfg.TrialTopic),
		StreamHealth: newWriter(cfg.HealthTopic),
	}, cfg.WriteTimeout), nil
}

func newKafkaPublisher(writers map[Stream]messageWriter, writeTimeout time.Duration) *KafkaPublisher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &KafkaPublisher{
		writers:      writers,
		writeTimeout: writeTimeout,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, batch ...Event) error {
	batches := make(map[Stream][]kafka.Message, len(p.writers))

	for _, event := range batch {
		if _, ok := p.writers[event.Stream]; !ok {
			return fmt.Errorf("stream desconhecido: %q", event.Stream)
		}

		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("erro ao serializar evento %s: %w", event.Type, err)
		}

		batches[event.Stream] = append(batches[event.Stream], kafka.Message{
			Key:   []byte(event.Key),
			Value: payload,
			Time:  event.OccurredAt,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(event.Type)},
			},
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	for stream, msgs := range batches {
		if err := p.writers[stream].WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("erro ao publicar %d eventos em %s: %w", len(msgs), stream, err)
		}
		logrus.WithField("stream", stream).Debugf("%d eventos publicados", len(msgs))
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	var firstErr error
	for stream, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("erro ao fechar writer %s: %w", stream, err)
		}
	}
	return firstErr
}
