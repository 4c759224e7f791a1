package components

import (
	"library-backend/internal/infra/pgsql"
	"library-backend/internal/infra/readstore"
	"library-backend/internal/infra/uow"
	"library-backend/internal/usecase/queries"
	"library-backend/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Book
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.BookReadQueries)),
		),
		fx.Annotate(
			readstore.NewBookReadStore,
			fx.As(new(queries.BookReadStore)),
		),
		// User
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.UserReadQueries)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

// Book and user repositories are built per transaction by the unit of work.
var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *pgsql.Queries {
	return pgsql.New()
}

func NewDBTX(pool *pgxpool.Pool) pgsql.DBTX {
	return pool
}
