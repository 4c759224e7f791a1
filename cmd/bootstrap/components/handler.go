package components

import (
	"library-backend/internal/handler"
	"library-backend/internal/handler/api"
	"library-backend/internal/handler/middleware"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/jwt"
	"library-backend/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookHandler,
		api.NewCirculationHandler,
		api.NewUserHandler,
		NewAuthMiddleware,
		NewRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)

func NewAuthMiddleware(tokens *jwt.Service, users queries.UserQueries) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(tokens, users)
}

func NewRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimit)
}
