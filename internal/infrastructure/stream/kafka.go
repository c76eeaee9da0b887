// Package stream publishes domain events to Kafka for the audit trail and
// downstream consumers (analytics, search indexing).
package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

const writeTimeout = 2 * time.Second

// EventProducer writes domain events to a Kafka topic, keyed by request id
// so one negotiation's events land on one partition in order.
type EventProducer struct {
	writer *kafka.Writer
}

func NewEventProducer(brokers []string, topic string) *EventProducer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &EventProducer{writer: w}
}

func (p *EventProducer) Publish(ctx context.Context, event domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	b, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.RequestID
	if key == "" {
		key = event.RecipientID
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
}

func (p *EventProducer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
