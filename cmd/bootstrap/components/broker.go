package components

import (
	"context"
	"log/slog"

	"reservation-engine/internal/infra/broker"
	"reservation-engine/internal/infra/outbox"
	"reservation-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewPublisher,
	),
)

// NewPublisher publishes to Kafka when brokers are configured and to the log otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (outbox.Publisher, error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("no kafka brokers configured, reservation events go to the log")
		return broker.NewLogPublisher(logger), nil
	}

	publisher, err := broker.NewKafkaPublisher(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
