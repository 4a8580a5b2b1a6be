package broker

import (
	"context"
	"log/slog"

	"reservation-engine/internal/infra/outbox"
)

// LogPublisher is used when no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, msg outbox.Message) error {
	p.logger.InfoContext(ctx, "domain event",
		"event_id", msg.ID,
		"event_type", msg.EventType,
		"aggregate_id", msg.AggregateID,
		"key", msg.Key,
		"payload", string(msg.Payload))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
