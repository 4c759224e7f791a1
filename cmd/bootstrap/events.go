package bootstrap

import (
	"context"
	"log/slog"

	"library-backend/internal/infra/events"
	"library-backend/internal/pkg/config"
	"library-backend/internal/usecase/commands"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewEventPublisher,
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (commands.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("Circulation events disabled", "reason", "KAFKA_BROKERS not set")
		return events.NopPublisher{}, nil
	}

	publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, map[string]string{
		commands.EventBookReserved: cfg.Kafka.ReservedTopic,
		commands.EventBookReturned: cfg.Kafka.ReturnedTopic,
	})
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
