package repository

import (
	"context"
	"log/slog"

	"library-backend/internal/domain/book"
	"library-backend/internal/infra"
	"library-backend/internal/infra/pgsql"
	"library-backend/internal/infra/repository/converter"
	"library-backend/internal/pkg/pgconv"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type BookQueries interface {
	CreateBook(ctx context.Context, db pgsql.DBTX, arg pgsql.CreateBookParams) error
	FindBookByIDForUpdate(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.Book, error)
	UpdateBook(ctx context.Context, db pgsql.DBTX, arg pgsql.UpdateBookParams) (int64, error)
}

// BookRepository is the write side of the catalog. Every method runs on the
// DBTX it was built with, normally a transaction from the unit of work.
type BookRepository struct {
	queries BookQueries
	db      pgsql.DBTX
	logger  *slog.Logger
}

func NewBookRepository(queries BookQueries, db pgsql.DBTX, logger *slog.Logger) *BookRepository {
	return &BookRepository{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) (err error) {
	ctx, span := tracer.Start(ctx, "books.create",
		trace.WithAttributes(attribute.String("book.id", b.ID().String())),
	)
	defer func() { endSpan(span, err) }()

	params, err := converter.BookToCreateParams(b)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to encode book history", err)
	}

	if err := r.queries.CreateBook(ctx, r.db, params); err != nil {
		if pgconv.IsUniqueViolation(err, "") {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "book already exists", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create book", err)
	}
	return nil
}

// FindByIDForUpdate loads the book and locks its row for the rest of the
// transaction. Disabled books are returned; callers decide how to treat them.
func (r *BookRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (_ *book.Book, err error) {
	ctx, span := tracer.Start(ctx, "books.find_for_update",
		trace.WithAttributes(attribute.String("book.id", id.String())),
	)
	defer func() { endSpan(span, err) }()

	row, err := r.queries.FindBookByIDForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "book not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load book", err)
	}

	b, err := converter.BookToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to decode book history", err)
	}
	span.SetAttributes(attribute.Int("reservations.count", len(b.Reservations())))
	return b, nil
}

func (r *BookRepository) Save(ctx context.Context, b *book.Book) (err error) {
	ctx, span := tracer.Start(ctx, "books.save",
		trace.WithAttributes(attribute.String("book.id", b.ID().String())),
	)
	defer func() { endSpan(span, err) }()

	params, err := converter.BookToUpdateParams(b)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to encode book history", err)
	}

	affected, err := r.queries.UpdateBook(ctx, r.db, params)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save book", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "book not found", nil)
	}
	return nil
}
