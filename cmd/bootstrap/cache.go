package bootstrap

import (
	"context"
	"log/slog"

	"library-backend/internal/infra/cache"
	"library-backend/internal/pkg/config"
	"library-backend/internal/usecase/commands"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewLockoutStore,
	),
)

// NewLockoutStore falls back to a store that never locks when REDIS_URL is
// empty.
func NewLockoutStore(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (commands.LockoutStore, error) {
	if cfg.Redis.URL == "" {
		logger.Info("Login lockout disabled", "reason", "REDIS_URL not set")
		return cache.NopLockoutStore{}, nil
	}

	client, err := cache.Connect(context.Background(), cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return cache.NewRedisLockoutStore(client), nil
}
