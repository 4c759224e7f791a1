package readstore

import (
	"slices"
	"strconv"
	"strings"

	"library-backend/internal/domain/book"
	"library-backend/internal/usecase/queries"
)

// availableExpr is the SQL form of book.IsAvailable. ->> yields NULL both
// for a missing returned_at key and for a JSON null.
const availableExpr = `NOT EXISTS (SELECT 1 FROM jsonb_array_elements(b.reservations) e WHERE e->>'returned_at' IS NULL)`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern that matches s literally as a
// substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func buildBookFilter(f queries.BookListFilter) *whereBuilder {
	w := &whereBuilder{}

	if !f.IncludeDisabled {
		w.add("b.enabled")
	}

	substr := []struct {
		column string
		value  string
	}{
		{"b.category", f.Category},
		{"b.author", f.Author},
		{"b.title", f.Title},
		{"b.publisher", f.Publisher},
	}
	for _, s := range substr {
		if s.value == "" {
			continue
		}
		w.add(s.column + " ILIKE " + w.arg(containsPattern(s.value)))
	}

	if f.PublishedFrom != nil {
		w.add("b.published_at >= " + w.arg(*f.PublishedFrom))
	}
	if f.PublishedTo != nil {
		w.add("b.published_at <= " + w.arg(*f.PublishedTo))
	}

	switch f.Availability {
	case book.AvailabilityAvailable:
		w.add(availableExpr)
	case book.AvailabilityReserved:
		w.add("NOT " + availableExpr)
	}

	return w
}

type listBooksQuery struct {
	countSQL  string
	countArgs []any
	listSQL   string
	listArgs  []any
}

func buildListBooksQuery(f queries.BookListFilter, limit, offset int) listBooksQuery {
	w := buildBookFilter(f)
	where := w.sql()

	q := listBooksQuery{
		countSQL:  "SELECT count(*) FROM books b" + where,
		countArgs: slices.Clone(w.args),
	}
	q.listSQL = "SELECT b.id, b.title FROM books b" + where +
		" ORDER BY b.created_at, b.id" +
		" LIMIT " + w.arg(limit) + " OFFSET " + w.arg(offset)
	q.listArgs = w.args
	return q
}
