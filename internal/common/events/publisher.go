// internal/common/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/common/metrics"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeAssessmentCompleted = "loan.assessment.completed"
	TypeApplicationRejected = "loan.application.rejected"
)

// Event is the envelope every domain event is published in.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

func NewEvent(eventType, source string, data interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     source,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher sends domain events keyed for partitioning.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher keeps one writer per topic, created on first use.
type KafkaPublisher struct {
	mu        sync.Mutex
	writers   map[string]messageWriter
	newWriter func(topic string) messageWriter
	log       logger.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, log logger.Logger) *KafkaPublisher {
	batchTimeout := time.Duration(cfg.BatchTimeout) * time.Millisecond
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}

	return &KafkaPublisher{
		writers: make(map[string]messageWriter),
		newWriter: func(topic string) messageWriter {
			return &kafka.Writer{
				Addr:         kafka.TCP(cfg.Brokers...),
				Topic:        topic,
				Balancer:     &kafka.LeastBytes{},
				BatchTimeout: batchTimeout,
				RequiredAcks: kafka.RequireAll,
				Transport:    &kafka.Transport{ClientID: cfg.ClientID},
			}
		},
		log: log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(event.ID)},
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err := p.writer(topic).WriteMessages(ctx, msg); err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()

	p.log.Debug("event published", map[string]interface{}{
		"topic":     topic,
		"eventId":   event.ID,
		"eventType": event.Type,
	})
	return nil
}

func (p *KafkaPublisher) writer(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]messageWriter)
	return firstErr
}

// NopPublisher drops events. It is used when Kafka is disabled.
type NopPublisher struct {
	Log logger.Logger
}

func (n NopPublisher) Publish(_ context.Context, topic, _ string, event Event) error {
	if n.Log != nil {
		n.Log.Debug("event publishing disabled", map[string]interface{}{
			"topic":     topic,
			"eventType": event.Type,
		})
	}
	return nil
}

func (NopPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when enabled in cfg and a
// NopPublisher otherwise.
func NewPublisher(cfg config.KafkaConfig, log logger.Logger) Publisher {
	if !cfg.Enabled {
		return NopPublisher{Log: log}
	}
	return NewKafkaPublisher(cfg, log)
}
