package shared

import (
	"context"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in a read-committed transaction, retrying on
	// serialization failures and deadlocks.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the write repositories bound to one transaction.
type Tx interface {
	Books() BookRepository
	Users() UserRepository
}

type BookRepository interface {
	Create(ctx context.Context, b *book.Book) error
	// FindByIDForUpdate locks the row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*book.Book, error)
	Save(ctx context.Context, b *book.Book) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*user.User, error)
	Save(ctx context.Context, u *user.User) error
}
