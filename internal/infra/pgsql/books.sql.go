package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookColumns = `id, title, author, description, category, publisher, published_at, stock, enabled, created_at, updated_at, reservations`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Description,
		&b.Category,
		&b.Publisher,
		&b.PublishedAt,
		&b.Stock,
		&b.Enabled,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.Reservations,
	)
	return b, err
}

const createBook = `INSERT INTO books (` + bookColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

type CreateBookParams struct {
	ID           uuid.UUID
	Title        string
	Author       string
	Description  string
	Category     string
	Publisher    string
	PublishedAt  pgtype.Timestamptz
	Stock        int32
	Enabled      bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	Reservations []byte
}

func (q *Queries) CreateBook(ctx context.Context, db DBTX, arg CreateBookParams) error {
	_, err := db.Exec(ctx, createBook,
		arg.ID,
		arg.Title,
		arg.Author,
		arg.Description,
		arg.Category,
		arg.Publisher,
		arg.PublishedAt,
		arg.Stock,
		arg.Enabled,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.Reservations,
	)
	return err
}

const findBookByID = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

func (q *Queries) FindBookByID(ctx context.Context, db DBTX, id uuid.UUID) (Book, error) {
	return scanBook(db.QueryRow(ctx, findBookByID, id))
}

const findBookByIDForUpdate = findBookByID + ` FOR UPDATE`

// FindBookByIDForUpdate locks the row until the surrounding transaction ends.
func (q *Queries) FindBookByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Book, error) {
	return scanBook(db.QueryRow(ctx, findBookByIDForUpdate, id))
}

const updateBook = `UPDATE books SET
    title = $2,
    author = $3,
    description = $4,
    category = $5,
    publisher = $6,
    published_at = $7,
    stock = $8,
    enabled = $9,
    updated_at = $10,
    reservations = $11
WHERE id = $1`

type UpdateBookParams struct {
	ID           uuid.UUID
	Title        string
	Author       string
	Description  string
	Category     string
	Publisher    string
	PublishedAt  pgtype.Timestamptz
	Stock        int32
	Enabled      bool
	UpdatedAt    pgtype.Timestamptz
	Reservations []byte
}

func (q *Queries) UpdateBook(ctx context.Context, db DBTX, arg UpdateBookParams) (int64, error) {
	tag, err := db.Exec(ctx, updateBook,
		arg.ID,
		arg.Title,
		arg.Author,
		arg.Description,
		arg.Category,
		arg.Publisher,
		arg.PublishedAt,
		arg.Stock,
		arg.Enabled,
		arg.UpdatedAt,
		arg.Reservations,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// FindBookSummaries ignores the enabled flag so history views can still
// name disabled books.
const findBookSummaries = `SELECT id, title, author FROM books WHERE id = ANY($1::uuid[])`

func (q *Queries) FindBookSummaries(ctx context.Context, db DBTX, ids []uuid.UUID) ([]BookSummary, error) {
	rows, err := db.Query(ctx, findBookSummaries, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BookSummary
	for rows.Next() {
		var s BookSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Author); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const findEnabledBookByID = `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND enabled`

// FindEnabledBookByID treats a disabled book as missing.
func (q *Queries) FindEnabledBookByID(ctx context.Context, db DBTX, id uuid.UUID) (Book, error) {
	return scanBook(db.QueryRow(ctx, findEnabledBookByID, id))
}
