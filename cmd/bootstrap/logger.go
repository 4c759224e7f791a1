package bootstrap

import (
	"log/slog"

	"library-backend/internal/handler/middleware"
	"library-backend/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewRequestLogger,
		NewLogger,
	),
)

func NewRequestLogger(cfg config.Config) *middleware.Logger {
	return middleware.NewLogger(cfg.Log)
}

func NewLogger(l *middleware.Logger) *slog.Logger {
	logger := l.GetSlogLogger()
	slog.SetDefault(logger)
	return logger
}
