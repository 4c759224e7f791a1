package readstore

import (
	"context"
	"log/slog"

	"library-backend/internal/infra"
	"library-backend/internal/infra/pgsql"
	"library-backend/internal/infra/repository/converter"
	"library-backend/internal/pkg/pagination"
	"library-backend/internal/pkg/pgconv"
	"library-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadQueries interface {
	FindEnabledUserByID(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.User, error)
	FindUserByEmail(ctx context.Context, db pgsql.DBTX, email string) (pgsql.User, error)
	ListUsers(ctx context.Context, db pgsql.DBTX, arg pgsql.ListUsersParams) ([]pgsql.User, error)
	CountUsers(ctx context.Context, db pgsql.DBTX, includeDisabled bool) (int64, error)
	FindBookSummaries(ctx context.Context, db pgsql.DBTX, ids []uuid.UUID) ([]pgsql.BookSummary, error)
}

type UserReadStore struct {
	queries UserReadQueries
	db      pgsql.DBTX
	logger  *slog.Logger
}

func NewUserReadStore(queries UserReadQueries, db pgsql.DBTX, logger *slog.Logger) *UserReadStore {
	return &UserReadStore{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	row, err := r.findEnabled(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toUserView(row)
	return &view, nil
}

// FindCredentialsByEmail also returns disabled users so the login flow can
// reject them with the same outcome as a wrong password.
func (r *UserReadStore) FindCredentialsByEmail(ctx context.Context, email string) (*queries.UserCredentials, error) {
	row, err := r.queries.FindUserByEmail(ctx, r.db, email)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find user by email", err)
	}

	return &queries.UserCredentials{
		UserView:     toUserView(row),
		PasswordHash: row.PasswordHash,
	}, nil
}

func (r *UserReadStore) List(ctx context.Context, includeDisabled bool, page pagination.Request) ([]queries.UserView, int64, error) {
	total, err := r.queries.CountUsers(ctx, r.db, includeDisabled)
	if err != nil {
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count users", err)
	}

	rows, err := r.queries.ListUsers(ctx, r.db, pgsql.ListUsersParams{
		IncludeDisabled: includeDisabled,
		Limit:           pgconv.Int32(page.Limit()),
		Offset:          pgconv.Int32(page.Offset()),
	})
	if err != nil {
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list users", err)
	}

	items := make([]queries.UserView, len(rows))
	for i, row := range rows {
		items[i] = toUserView(row)
	}
	return items, total, nil
}

// History resolves each entry's book, including disabled books. Books that
// no longer exist are reported with placeholder title and author.
func (r *UserReadStore) History(ctx context.Context, id uuid.UUID) ([]queries.UserHistoryEntry, error) {
	row, err := r.findEnabled(ctx, id)
	if err != nil {
		return nil, err
	}

	docs, err := converter.DecodeUserHistory(row.Reservations)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to decode user history", err)
	}
	if len(docs) == 0 {
		return []queries.UserHistoryEntry{}, nil
	}

	ids := make([]uuid.UUID, 0, len(docs))
	seen := make(map[uuid.UUID]struct{}, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.BookID]; !ok {
			seen[d.BookID] = struct{}{}
			ids = append(ids, d.BookID)
		}
	}

	summaries, err := r.queries.FindBookSummaries(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to resolve history books", err)
	}
	byID := make(map[uuid.UUID]pgsql.BookSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}

	entries := make([]queries.UserHistoryEntry, len(docs))
	for i, d := range docs {
		ref := queries.BookRef{ID: d.BookID, Title: queries.DeletedBookTitle, Author: queries.DeletedBookAuthor}
		if s, ok := byID[d.BookID]; ok {
			ref.Title = s.Title
			ref.Author = s.Author
		}
		entries[i] = queries.UserHistoryEntry{
			Book:       ref,
			ReservedAt: d.ReservedAt,
			ReturnedAt: d.ReturnedAt,
		}
	}
	return entries, nil
}

func (r *UserReadStore) findEnabled(ctx context.Context, id uuid.UUID) (pgsql.User, error) {
	row, err := r.queries.FindEnabledUserByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return pgsql.User{}, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return pgsql.User{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find user", err)
	}
	return row, nil
}

func toUserView(row pgsql.User) queries.UserView {
	return queries.UserView{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Roles:     row.Roles,
		Enabled:   row.Enabled,
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt: pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
