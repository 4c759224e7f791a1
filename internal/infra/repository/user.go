package repository

import (
	"context"
	"log/slog"

	"library-backend/internal/domain/user"
	"library-backend/internal/infra"
	"library-backend/internal/infra/pgsql"
	"library-backend/internal/infra/repository/converter"
	"library-backend/internal/pkg/pgconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const usersEmailConstraint = "users_email_key"

type UserQueries interface {
	CreateUser(ctx context.Context, db pgsql.DBTX, arg pgsql.CreateUserParams) error
	FindUserByIDForUpdate(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.User, error)
	UpdateUser(ctx context.Context, db pgsql.DBTX, arg pgsql.UpdateUserParams) (int64, error)
}

type UserRepository struct {
	queries UserQueries
	db      pgsql.DBTX
	logger  *slog.Logger
}

func NewUserRepository(queries UserQueries, db pgsql.DBTX, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (err error) {
	ctx, span := tracer.Start(ctx, "users.create",
		trace.WithAttributes(attribute.String("user.id", u.ID().String())),
	)
	defer func() { endSpan(span, err) }()

	params, err := converter.UserToCreateParams(u)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to encode user history", err)
	}

	if err := r.queries.CreateUser(ctx, r.db, params); err != nil {
		if pgconv.IsUniqueViolation(err, usersEmailConstraint) {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "email already registered", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (_ *user.User, err error) {
	ctx, span := tracer.Start(ctx, "users.find_for_update",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer func() { endSpan(span, err) }()

	row, err := r.queries.FindUserByIDForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load user", err)
	}

	u, err := converter.UserToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to decode user", err)
	}
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) (err error) {
	ctx, span := tracer.Start(ctx, "users.save",
		trace.WithAttributes(attribute.String("user.id", u.ID().String())),
	)
	defer func() { endSpan(span, err) }()

	params, err := converter.UserToUpdateParams(u)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to encode user history", err)
	}

	affected, err := r.queries.UpdateUser(ctx, r.db, params)
	if err != nil {
		if pgconv.IsUniqueViolation(err, usersEmailConstraint) {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "email already registered", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save user", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", nil)
	}
	return nil
}
