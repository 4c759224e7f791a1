package components

import (
	"library-backend/internal/pkg/clock"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/jwt"
	"library-backend/internal/usecase/commands"
	"library-backend/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.CatalogConfig { return cfg.Catalog },
	func(cfg config.Config) config.RedisConfig { return cfg.Redis },
	fx.Annotate(
		func(s *jwt.Service) *jwt.Service { return s },
		fx.As(new(commands.TokenIssuer)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookCommands,
		commands.NewUserCommands,
		commands.NewCirculationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookQueries,
		queries.NewUserQueries,
	),
)
