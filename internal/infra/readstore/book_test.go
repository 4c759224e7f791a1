//go:build unit

package readstore

import (
	"context"
	"math"
	"testing"

	"library-backend/internal/pkg/pagination"
	"library-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCountRow struct{ total int64 }

func (r stubCountRow) Scan(dest ...any) error {
	*dest[0].(*int64) = r.total
	return nil
}

type stubListRows struct {
	items []queries.BookListItem
	pos   int
}

func (r *stubListRows) Close()                                       {}
func (r *stubListRows) Err() error                                   { return nil }
func (r *stubListRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubListRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubListRows) Values() ([]any, error)                       { return nil, nil }
func (r *stubListRows) RawValues() [][]byte                          { return nil }
func (r *stubListRows) Conn() *pgx.Conn                              { return nil }

func (r *stubListRows) Next() bool {
	if r.pos >= len(r.items) {
		return false
	}
	r.pos++
	return true
}

func (r *stubListRows) Scan(dest ...any) error {
	item := r.items[r.pos-1]
	*dest[0].(*uuid.UUID) = item.ID
	*dest[1].(*string) = item.Title
	return nil
}

// stubDB answers the count and list statements and records the list args.
type stubDB struct {
	total    int64
	items    []queries.BookListItem
	listArgs []any
}

func (d *stubDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (d *stubDB) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	d.listArgs = args
	return &stubListRows{items: d.items}, nil
}

func (d *stubDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return stubCountRow{total: d.total}
}

func TestBookList(t *testing.T) {
	t.Run("returns the rows read", func(t *testing.T) {
		items := []queries.BookListItem{{ID: uuid.New(), Title: "Don Quijote"}, {ID: uuid.New(), Title: "Rayuela"}}
		db := &stubDB{total: 7, items: items}

		got, total, err := NewBookReadStore(nil, db, discardLogger).List(context.Background(), queries.BookListFilter{}, pagination.New(2, 5))
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Equal(t, items, got)
		assert.Equal(t, []any{5, 5}, db.listArgs)
	})

	t.Run("empty page is a non-nil slice", func(t *testing.T) {
		got, _, err := NewBookReadStore(nil, &stubDB{}, discardLogger).List(context.Background(), queries.BookListFilter{}, pagination.New(1, 10))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("extreme page values are bounded", func(t *testing.T) {
		db := &stubDB{total: 3}
		page := pagination.Parse("9223372036854775807", "9223372036854775807", 10, 100)

		assert.NotPanics(t, func() {
			got, total, err := NewBookReadStore(nil, db, discardLogger).List(context.Background(), queries.BookListFilter{}, page)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			assert.Empty(t, got)
		})
		assert.Equal(t, []any{100, math.MaxInt}, db.listArgs)
	})
}
