// Package kafka implements the domain event publisher on kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/cashlens/cashlens/internal/domain/event"
)

// Publisher implements port.EventPublisher using Kafka.
type Publisher struct {
	mu      sync.Mutex
	writers map[string]*kafkago.Writer
	brokers []string
	logger  *slog.Logger
}

// NewPublisher creates a Kafka-based event publisher.
func NewPublisher(brokers []string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writers: make(map[string]*kafkago.Writer),
		brokers: brokers,
		logger:  logger,
	}
}

// Publish sends domain events to the given topic, keyed by aggregate id.
func (p *Publisher) Publish(ctx context.Context, topic string, events ...event.DomainEvent) error {
	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			"topic", topic,
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
		)

		messages = append(messages, kafkago.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: []kafkago.Header{
				{Key: "event_type", Value: []byte(evt.EventType())},
				{Key: "event_id", Value: []byte(evt.EventID().String())},
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.getOrCreateWriter(topic).WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish events to topic %s: %w", topic, err)
	}
	return nil
}

// Close closes all topic writers.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return firstErr
}

func (p *Publisher) getOrCreateWriter(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	p.writers[topic] = w
	return w
}
