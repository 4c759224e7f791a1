package converter

import (
	"library-backend/internal/domain/book"
	"library-backend/internal/infra/pgsql"
	"library-backend/internal/pkg/pgconv"
)

func BookToDomain(row pgsql.Book) (*book.Book, error) {
	docs, err := DecodeBookHistory(row.Reservations)
	if err != nil {
		return nil, err
	}

	return book.ReconstructBook(
		row.ID,
		row.Title,
		row.Author,
		row.Description,
		row.Category,
		row.Publisher,
		pgconv.TimeFromPgtype(row.PublishedAt),
		int(row.Stock),
		row.Enabled,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
		BookEntriesToDomain(docs),
	), nil
}

func BookToCreateParams(b *book.Book) (pgsql.CreateBookParams, error) {
	history, err := EncodeBookHistory(b.Reservations())
	if err != nil {
		return pgsql.CreateBookParams{}, err
	}

	return pgsql.CreateBookParams{
		ID:           b.ID(),
		Title:        b.Title(),
		Author:       b.Author(),
		Description:  b.Description(),
		Category:     b.Category(),
		Publisher:    b.Publisher(),
		PublishedAt:  pgconv.TimeToPgtype(b.PublishedAt()),
		Stock:        pgconv.Int32(b.Stock()),
		Enabled:      b.IsEnabled(),
		CreatedAt:    pgconv.TimeToPgtype(b.CreatedAt()),
		UpdatedAt:    pgconv.TimeToPgtype(b.UpdatedAt()),
		Reservations: history,
	}, nil
}

func BookToUpdateParams(b *book.Book) (pgsql.UpdateBookParams, error) {
	history, err := EncodeBookHistory(b.Reservations())
	if err != nil {
		return pgsql.UpdateBookParams{}, err
	}

	return pgsql.UpdateBookParams{
		ID:           b.ID(),
		Title:        b.Title(),
		Author:       b.Author(),
		Description:  b.Description(),
		Category:     b.Category(),
		Publisher:    b.Publisher(),
		PublishedAt:  pgconv.TimeToPgtype(b.PublishedAt()),
		Stock:        pgconv.Int32(b.Stock()),
		Enabled:      b.IsEnabled(),
		UpdatedAt:    pgconv.TimeToPgtype(b.UpdatedAt()),
		Reservations: history,
	}, nil
}
