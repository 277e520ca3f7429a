package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher wraps a shared kafka writer. A single writer multiplexes every
// topic; the message carries its own destination.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(brokers []string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logger,
	}
}

// Publish satisfies the context-level publisher port.
func (p *Publisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	return p.PublishMessage(ctx, kafka.Message{Topic: topic, Key: key, Value: value})
}

func (p *Publisher) PublishMessage(ctx context.Context, msg kafka.Message) error {
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		if p.logger != nil {
			p.logger.Error("message publish failed",
				"event", "kafka_publish_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", msg.Topic,
				"error", err.Error(),
			)
		}
		return err
	}
	if p.logger != nil {
		p.logger.Debug("message published",
			"event", "kafka_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", msg.Topic,
		)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
