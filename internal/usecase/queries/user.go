package queries

import (
	"context"

	"library-backend/internal/domain/access"
	"library-backend/internal/infra"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/pkg/pagination"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errs.New("user not found")
	ErrUserAccess   = errs.New("user access denied")
)

type UserQueries interface {
	// GetCurrentUser reloads the authenticated user. Disabled and deleted
	// users are reported as not found.
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error)
	Get(ctx context.Context, id uuid.UUID) (*UserView, error)
	List(ctx context.Context, includeDisabled bool, rawPage, rawPageSize string) (*UserListPage, error)
	History(ctx context.Context, subject access.Subject, id uuid.UUID) ([]UserHistoryEntry, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserView, error)
	FindCredentialsByEmail(ctx context.Context, email string) (*UserCredentials, error)
	List(ctx context.Context, includeDisabled bool, page pagination.Request) ([]UserView, int64, error)
	History(ctx context.Context, id uuid.UUID) ([]UserHistoryEntry, error)
}

type userQueriesImpl struct {
	readStore       UserReadStore
	defaultPageSize int
	maxPageSize     int
}

func NewUserQueries(readStore UserReadStore, cfg config.CatalogConfig) UserQueries {
	return &userQueriesImpl{
		readStore:       readStore,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	return q.Get(ctx, userID)
}

func (q *userQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*UserView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return view, nil
}

func (q *userQueriesImpl) List(ctx context.Context, includeDisabled bool, rawPage, rawPageSize string) (*UserListPage, error) {
	page := pagination.Parse(rawPage, rawPageSize, q.defaultPageSize, q.maxPageSize)

	items, total, err := q.readStore.List(ctx, includeDisabled, page)
	if err != nil {
		return nil, err
	}

	return &UserListPage{
		Items: items,
		Meta:  pagination.NewMeta(page, total),
	}, nil
}

// History checks access before existence.
func (q *userQueriesImpl) History(ctx context.Context, subject access.Subject, id uuid.UUID) ([]UserHistoryEntry, error) {
	if !access.CanViewUserHistory(subject, id) {
		return nil, ErrUserAccess
	}

	entries, err := q.readStore.History(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return entries, nil
}

func mapUserErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrUserNotFound)
	}
	return err
}
