//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword matches testPasswordHash.
const TestPassword = "password123"

const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

// CreateTestUser inserts an enabled user. Without roles the user gets USER.
func CreateTestUser(t *testing.T, db DBLike, email string, roles ...string) uuid.UUID {
	t.Helper()

	if len(roles) == 0 {
		roles = []string{"USER"}
	}

	userID := uuid.New()
	ctx := context.Background()
	name := strings.Split(email, "@")[0]

	tag, err := db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, roles, enabled)
		 VALUES ($1, $2, $3, $4, $5, true)
		 ON CONFLICT DO NOTHING`,
		userID, name, email, testPasswordHash, roles)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

type TestBook struct {
	Title       string
	Author      string
	Category    string
	Publisher   string
	PublishedAt time.Time
	Stock       int
	Enabled     bool
	CreatedAt   time.Time
	// Reservations is raw JSON for the reservations column.
	Reservations string
}

// CreateTestBook inserts a book row directly so fixtures can carry legacy
// history shapes the API never writes.
func CreateTestBook(t *testing.T, db DBLike, b TestBook) uuid.UUID {
	t.Helper()

	if b.Reservations == "" {
		b.Reservations = "[]"
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	bookID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO books (id, title, author, category, publisher, published_at, stock, enabled, created_at, updated_at, reservations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $10::jsonb)`,
		bookID, b.Title, b.Author, b.Category, b.Publisher, b.PublishedAt, b.Stock, b.Enabled, b.CreatedAt, b.Reservations)
	require.NoError(t, err)

	return bookID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every application table.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
