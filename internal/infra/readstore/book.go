package readstore

import (
	"context"
	"log/slog"

	"library-backend/internal/domain/book"
	"library-backend/internal/infra"
	"library-backend/internal/infra/pgsql"
	"library-backend/internal/infra/repository/converter"
	"library-backend/internal/pkg/pagination"
	"library-backend/internal/pkg/pgconv"
	"library-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("library-backend/readstore")

type BookReadQueries interface {
	FindEnabledBookByID(ctx context.Context, db pgsql.DBTX, id uuid.UUID) (pgsql.Book, error)
}

type BookReadStore struct {
	queries BookReadQueries
	db      pgsql.DBTX
	logger  *slog.Logger
}

func NewBookReadStore(queries BookReadQueries, db pgsql.DBTX, logger *slog.Logger) *BookReadStore {
	return &BookReadStore{
		queries: queries,
		db:      db,
		logger:  logger,
	}
}

// List returns one page of the filtered catalog and the size of the whole
// filtered set, availability included.
func (r *BookReadStore) List(ctx context.Context, f queries.BookListFilter, page pagination.Request) ([]queries.BookListItem, int64, error) {
	ctx, span := tracer.Start(ctx, "books.list",
		trace.WithAttributes(
			attribute.Int("page", page.Page),
			attribute.Int("page.size", page.PageSize),
			attribute.String("availability", string(f.Availability)),
		),
	)
	defer span.End()

	q := buildListBooksQuery(f, page.Limit(), page.Offset())

	var total int64
	if err := r.db.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
		span.RecordError(err)
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count books", err)
	}

	rows, err := r.db.Query(ctx, q.listSQL, q.listArgs...)
	if err != nil {
		span.RecordError(err)
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list books", err)
	}
	defer rows.Close()

	items := []queries.BookListItem{}
	for rows.Next() {
		var item queries.BookListItem
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan book", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list books", err)
	}

	span.SetAttributes(attribute.Int64("total", total))
	return items, total, nil
}

func (r *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	row, history, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookView(row, book.IsAvailable(converter.BookEntriesToDomain(history))), nil
}

// History lists the book's entries in chronological order. Entries without a
// holder name snapshot are reported as DeletedUserName.
func (r *BookReadStore) History(ctx context.Context, id uuid.UUID) ([]queries.BookHistoryEntry, error) {
	_, history, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	entries := make([]queries.BookHistoryEntry, len(history))
	for i, d := range history {
		name := queries.DeletedUserName
		if d.HolderName != nil && *d.HolderName != "" {
			name = *d.HolderName
		}
		entries[i] = queries.BookHistoryEntry{
			HolderName: name,
			ReservedAt: d.ReservedAt,
			ReturnedAt: d.ReturnedAt,
		}
	}
	return entries, nil
}

func (r *BookReadStore) load(ctx context.Context, id uuid.UUID) (pgsql.Book, []converter.BookEntryDoc, error) {
	row, err := r.queries.FindEnabledBookByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return pgsql.Book{}, nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "book not found", err)
		}
		return pgsql.Book{}, nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find book", err)
	}

	history, err := converter.DecodeBookHistory(row.Reservations)
	if err != nil {
		return pgsql.Book{}, nil, infra.WrapRepoErr(r.logger, infra.KindCorruptData, "failed to decode book history", err)
	}
	return row, history, nil
}

func toBookView(row pgsql.Book, available bool) *queries.BookView {
	return &queries.BookView{
		ID:          row.ID,
		Title:       row.Title,
		Author:      row.Author,
		Description: row.Description,
		Category:    row.Category,
		Publisher:   row.Publisher,
		PublishedAt: pgconv.TimeFromPgtype(row.PublishedAt),
		Stock:       int(row.Stock),
		Enabled:     row.Enabled,
		Available:   available,
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
