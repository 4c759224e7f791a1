package commands

import (
	"context"

	"library-backend/internal/domain/access"
	"library-backend/internal/domain/book"
	"library-backend/internal/pkg/clock"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/usecase/queries"
	"library-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrEmptyBookPatch = errs.New("no book fields to update")

type BookCommands interface {
	Create(ctx context.Context, params book.NewBookParams) (*queries.BookView, error)
	Update(ctx context.Context, subject access.Subject, id uuid.UUID, patch book.Patch) (*queries.BookView, error)
	Disable(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type bookCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookCommands(uow shared.UnitOfWork, clock clock.Clock) BookCommands {
	return &bookCommandsImpl{
		uow:   uow,
		clock: clock,
	}
}

func (c *bookCommandsImpl) Create(ctx context.Context, params book.NewBookParams) (*queries.BookView, error) {
	b, err := book.NewBook(params, c.clock.Now().UTC())
	if err != nil {
		return nil, markValidation(err)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Books().Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return toBookView(b), nil
}

// Update applies the patch after checking that the subject may touch every
// field it names. Disabled books are treated as missing.
func (c *bookCommandsImpl) Update(ctx context.Context, subject access.Subject, id uuid.UUID, patch book.Patch) (*queries.BookView, error) {
	if patch.IsEmpty() {
		return nil, errs.Mark(ErrEmptyBookPatch, ErrInvalidInput)
	}
	if !access.CanUpdateBook(subject, patch.Fields()) {
		return nil, ErrForbidden
	}

	var updated *book.Book
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Books().FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapBookLookupErr(err)
		}
		if !b.IsEnabled() {
			return ErrBookNotFound
		}
		if err := b.Apply(patch, c.clock.Now().UTC()); err != nil {
			return markValidation(err)
		}
		updated = b
		return tx.Books().Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return toBookView(updated), nil
}

func (c *bookCommandsImpl) Disable(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Books().FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapBookLookupErr(err)
		}
		if !b.IsEnabled() {
			return ErrBookNotFound
		}
		b.Disable(c.clock.Now().UTC())
		return tx.Books().Save(ctx, b)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func toBookView(b *book.Book) *queries.BookView {
	return &queries.BookView{
		ID:          b.ID(),
		Title:       b.Title(),
		Author:      b.Author(),
		Description: b.Description(),
		Category:    b.Category(),
		Publisher:   b.Publisher(),
		PublishedAt: b.PublishedAt(),
		Stock:       b.Stock(),
		Enabled:     b.IsEnabled(),
		Available:   b.IsAvailable(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
}
