package bootstrap

import (
	"library-backend/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TracingModule,
	DBModule,
	JWTModule,
	CacheModule,
	EventsModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
