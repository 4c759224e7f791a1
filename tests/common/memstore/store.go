//go:build unit

// Package memstore is an in-memory unit of work for usecase tests. A
// transaction holds the store lock for its whole duration, which stands in
// for the row locks taken by the PostgreSQL repositories.
package memstore

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"
	"library-backend/internal/infra"
	"library-backend/internal/pkg/pagination"
	"library-backend/internal/usecase/queries"
	"library-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type Store struct {
	mu    sync.Mutex
	books map[uuid.UUID]*book.Book
	users map[uuid.UUID]*user.User

	// FailUserSave, when set, is returned by every user Save.
	FailUserSave error
	// Transactions counts committed and rolled back Within calls.
	Transactions int
}

func New() *Store {
	return &Store{
		books: make(map[uuid.UUID]*book.Book),
		users: make(map[uuid.UUID]*user.User),
	}
}

func (s *Store) PutBook(b *book.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ID()] = copyBook(b)
}

func (s *Store) PutUser(u *user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID()] = copyUser(u)
}

// Book returns a snapshot of the stored book, or nil.
func (s *Store) Book(id uuid.UUID) *book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.books[id]; ok {
		return copyBook(b)
	}
	return nil
}

func (s *Store) User(id uuid.UUID) *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u)
	}
	return nil
}

// Within stages writes and applies them only when fn succeeds.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transactions++

	tx := &memTx{
		store: s,
		books: make(map[uuid.UUID]*book.Book),
		users: make(map[uuid.UUID]*user.User),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for id, b := range tx.books {
		s.books[id] = b
	}
	for id, u := range tx.users {
		s.users[id] = u
	}
	return nil
}

type memTx struct {
	store *Store
	books map[uuid.UUID]*book.Book
	users map[uuid.UUID]*user.User
}

func (t *memTx) Books() shared.BookRepository { return bookRepo{t} }
func (t *memTx) Users() shared.UserRepository { return userRepo{t} }

type bookRepo struct{ tx *memTx }

func (r bookRepo) Create(_ context.Context, b *book.Book) error {
	r.tx.books[b.ID()] = copyBook(b)
	return nil
}

func (r bookRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*book.Book, error) {
	if b, ok := r.tx.books[id]; ok {
		return copyBook(b), nil
	}
	if b, ok := r.tx.store.books[id]; ok {
		return copyBook(b), nil
	}
	return nil, infra.WrapRepoErr(logger, infra.KindNotFound, "book not found", nil)
}

func (r bookRepo) Save(_ context.Context, b *book.Book) error {
	if _, ok := r.tx.store.books[b.ID()]; !ok {
		if _, staged := r.tx.books[b.ID()]; !staged {
			return infra.WrapRepoErr(logger, infra.KindNotFound, "book not found", nil)
		}
	}
	r.tx.books[b.ID()] = copyBook(b)
	return nil
}

type userRepo struct{ tx *memTx }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	if r.emailTaken(u) {
		return infra.WrapRepoErr(logger, infra.KindDuplicateKey, "email already exists", nil)
	}
	r.tx.users[u.ID()] = copyUser(u)
	return nil
}

func (r userRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*user.User, error) {
	if u, ok := r.tx.users[id]; ok {
		return copyUser(u), nil
	}
	if u, ok := r.tx.store.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, infra.WrapRepoErr(logger, infra.KindNotFound, "user not found", nil)
}

func (r userRepo) Save(_ context.Context, u *user.User) error {
	if r.tx.store.FailUserSave != nil {
		return r.tx.store.FailUserSave
	}
	if _, ok := r.tx.store.users[u.ID()]; !ok {
		return infra.WrapRepoErr(logger, infra.KindNotFound, "user not found", nil)
	}
	if r.emailTaken(u) {
		return infra.WrapRepoErr(logger, infra.KindDuplicateKey, "email already exists", nil)
	}
	r.tx.users[u.ID()] = copyUser(u)
	return nil
}

func (r userRepo) emailTaken(u *user.User) bool {
	for id, other := range r.tx.store.users {
		if id != u.ID() && other.Email() == u.Email() {
			return true
		}
	}
	return false
}

// FindByID, FindCredentialsByEmail, List and History satisfy
// queries.UserReadStore over the committed state.
func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*queries.UserView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || !u.IsEnabled() {
		return nil, infra.WrapRepoErr(logger, infra.KindNotFound, "user not found", nil)
	}
	view := userView(u)
	return &view, nil
}

func (s *Store) FindCredentialsByEmail(_ context.Context, email string) (*queries.UserCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email().Value() == email {
			return &queries.UserCredentials{UserView: userView(u), PasswordHash: u.PasswordHash()}, nil
		}
	}
	return nil, infra.WrapRepoErr(logger, infra.KindNotFound, "user not found", nil)
}

func (s *Store) List(_ context.Context, includeDisabled bool, page pagination.Request) ([]queries.UserView, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]queries.UserView, 0, len(s.users))
	for _, u := range s.users {
		if includeDisabled || u.IsEnabled() {
			all = append(all, userView(u))
		}
	}
	slices.SortFunc(all, func(a, b queries.UserView) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})

	total := int64(len(all))
	start := min(page.Offset(), len(all))
	end := min(start+page.Limit(), len(all))
	return all[start:end], total, nil
}

func (s *Store) History(_ context.Context, id uuid.UUID) ([]queries.UserHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || !u.IsEnabled() {
		return nil, infra.WrapRepoErr(logger, infra.KindNotFound, "user not found", nil)
	}

	entries := make([]queries.UserHistoryEntry, 0)
	for _, e := range u.Reservations() {
		ref := queries.BookRef{ID: e.BookID, Title: queries.DeletedBookTitle, Author: queries.DeletedBookAuthor}
		if b, ok := s.books[e.BookID]; ok {
			ref.Title = b.Title()
			ref.Author = b.Author()
		}
		entries = append(entries, queries.UserHistoryEntry{Book: ref, ReservedAt: e.ReservedAt, ReturnedAt: e.ReturnedAt})
	}
	return entries, nil
}

func userView(u *user.User) queries.UserView {
	return queries.UserView{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email().Value(),
		Roles:     u.Roles().Strings(),
		Enabled:   u.IsEnabled(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func copyBook(b *book.Book) *book.Book {
	return book.ReconstructBook(
		b.ID(), b.Title(), b.Author(), b.Description(), b.Category(), b.Publisher(),
		b.PublishedAt(), b.Stock(), b.IsEnabled(), b.CreatedAt(), b.UpdatedAt(), b.Reservations(),
	)
}

func copyUser(u *user.User) *user.User {
	return user.ReconstructUser(
		u.ID(), u.Name(), u.Email(), u.PasswordHash(), u.Roles(), u.IsEnabled(),
		u.CreatedAt(), u.UpdatedAt(), u.Reservations(),
	)
}
