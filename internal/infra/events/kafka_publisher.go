package events

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer       *kafka.Writer
	topicByEvent map[string]string
}

func NewKafkaPublisher(brokers []string, topicByEvent map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topicByEvent: topicByEvent,
	}, nil
}

// Publish routes eventType to its configured topic, falling back to the event
// type itself. Messages with the same partitionKey keep their order.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topicFor(eventType),
		Key:   []byte(partitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

func (p *KafkaPublisher) topicFor(eventType string) string {
	if mapped, ok := p.topicByEvent[eventType]; ok && mapped != "" {
		return mapped
	}
	return eventType
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when KAFKA_BROKERS is empty.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte, string) error {
	return nil
}
