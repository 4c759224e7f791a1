//go:build e2e

package catalog_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"
	"library-backend/internal/handler/dto/request"
	"library-backend/internal/handler/dto/response"
	"library-backend/internal/infra/repository/converter"
	"library-backend/tests/common/authtest"
	"library-backend/tests/common/dbtest"
	"library-backend/tests/common/httptest"
	"library-backend/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const booksURL = "/api/v1/books"

type catalogSuite struct {
	e2e.SharedSuite
}

func TestCatalogSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(catalogSuite))
}

func ptr[T any](v T) *T { return &v }

var baseCreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (s *catalogSuite) insertBook(i int, mutate func(*dbtest.TestBook)) uuid.UUID {
	b := dbtest.TestBook{
		Title:       fmt.Sprintf("Book %02d", i),
		Author:      "Author",
		Category:    "General",
		Publisher:   "Publisher",
		PublishedAt: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		Stock:       1,
		Enabled:     true,
		CreatedAt:   baseCreatedAt.Add(time.Duration(i) * time.Minute),
	}
	if mutate != nil {
		mutate(&b)
	}
	return dbtest.CreateTestBook(s.T(), s.DB, b)
}

func (s *catalogSuite) list(token string, params url.Values) response.BookListResponse {
	path := booksURL
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var res response.BookListResponse
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, path, nil, token)
	httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
	return res
}

func ids(items []response.BookListItemResponse) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func (s *catalogSuite) TestBookLifecycle() {
	s.Run("create, update and disable", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "librarian@example.com", string(user.RoleAdmin))

		create := request.CreateBookRequest{
			Title:       "Dune",
			Author:      "Frank Herbert",
			Publisher:   "Chilton",
			PublishedAt: "1965-08-01",
			Stock:       ptr(2),
		}
		var created response.BookResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, booksURL, create, token)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.Equal(t, "General", created.Category)
		require.Equal(t, "", created.Description)
		require.True(t, created.Enabled)
		require.True(t, created.Available)

		var updated response.BookResponse
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, booksURL+"/"+created.ID.String(),
			request.UpdateBookRequest{Title: ptr("Dune Messiah"), Stock: ptr(5)}, token)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &updated)
		require.Equal(t, "Dune Messiah", updated.Title)
		require.Equal(t, 5, updated.Stock)
		require.Equal(t, "Frank Herbert", updated.Author)

		var disabled response.IDResponse
		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, booksURL+"/"+created.ID.String(), nil, token)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &disabled)
		require.Equal(t, created.ID, disabled.ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, booksURL+"/"+created.ID.String(), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Book not found")

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, booksURL+"/"+created.ID.String(), nil, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("negative stock is rejected", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "librarian@example.com", string(user.RoleCreateBooks))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, booksURL, request.CreateBookRequest{
			Title: "T", Author: "A", Publisher: "P", PublishedAt: "2001-01-01", Stock: ptr(-1),
		}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})
}

func (s *catalogSuite) TestFieldLevelUpdateAccess() {
	tests := []struct {
		name           string
		roles          []string
		body           request.UpdateBookRequest
		expectedStatus int
	}{
		{name: "modifier may change informational fields", roles: []string{"MODIFY_BOOKS"}, body: request.UpdateBookRequest{Author: ptr("Someone")}, expectedStatus: http.StatusOK},
		{name: "admin without MODIFY_BOOKS may change stock only", roles: []string{"ADMIN"}, body: request.UpdateBookRequest{Stock: ptr(9)}, expectedStatus: http.StatusOK},
		{name: "admin without MODIFY_BOOKS may not change title", roles: []string{"ADMIN"}, body: request.UpdateBookRequest{Title: ptr("New")}, expectedStatus: http.StatusForbidden},
		{name: "plain user fails the route gate", roles: []string{"USER"}, body: request.UpdateBookRequest{Stock: ptr(1)}, expectedStatus: http.StatusForbidden},
		{name: "empty patch", roles: []string{"MODIFY_BOOKS"}, body: request.UpdateBookRequest{}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()
			token := authtest.CreateAndLogin(t, s.DB, s.Router, "editor@example.com", tt.roles...)
			bookID := s.insertBook(1, nil)

			w := httptest.PerformRequest(t, s.Router, http.MethodPut, booksURL+"/"+bookID.String(), tt.body, token)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func (s *catalogSuite) TestPagination() {
	s.Run("pages concatenate to the whole set in creation order", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com")

		var want []uuid.UUID
		for i := range 7 {
			want = append(want, s.insertBook(i, nil))
		}

		var got []uuid.UUID
		for page := 1; page <= 3; page++ {
			res := s.list(token, url.Values{"page": {fmt.Sprint(page)}, "pageSize": {"3"}})
			require.Equal(t, int64(7), res.Meta.Total)
			require.Equal(t, int64(3), res.Meta.TotalPages)
			require.Equal(t, page, res.Meta.Page)
			got = append(got, ids(res.Data)...)
		}
		require.Equal(t, want, got)
	})

	s.Run("malformed paging falls back to defaults", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com")
		for i := range 12 {
			s.insertBook(i, nil)
		}

		res := s.list(token, url.Values{"page": {"abc"}, "pageSize": {"xyz"}})
		require.Equal(t, 1, res.Meta.Page)
		require.Equal(t, 10, res.Meta.PerPage)
		require.Len(t, res.Data, 10)

		res = s.list(token, url.Values{"page": {"-3"}, "pageSize": {"0"}})
		require.Equal(t, 1, res.Meta.Page)
		require.Equal(t, 1, res.Meta.PerPage)
		require.Equal(t, int64(12), res.Meta.TotalPages)
	})
}

func (s *catalogSuite) TestFilters() {
	s.Run("substring filters are literal and case insensitive", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com")

		pct := s.insertBook(1, func(b *dbtest.TestBook) { b.Title = "100% Pure" })
		s.insertBook(2, func(b *dbtest.TestBook) { b.Title = "1000 Pure" })

		require.Equal(t, []uuid.UUID{pct}, ids(s.list(token, url.Values{"title": {"0% p"}}).Data))

		under := s.insertBook(3, func(b *dbtest.TestBook) { b.Author = "snake_case" })
		s.insertBook(4, func(b *dbtest.TestBook) { b.Author = "snakeXcase" })
		require.Equal(t, []uuid.UUID{under}, ids(s.list(token, url.Values{"author": {"E_C"}}).Data))
	})

	s.Run("category and publisher combine with AND", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com")

		match := s.insertBook(1, func(b *dbtest.TestBook) { b.Category = "Science Fiction"; b.Publisher = "Ace" })
		s.insertBook(2, func(b *dbtest.TestBook) { b.Category = "Science Fiction"; b.Publisher = "Tor" })
		s.insertBook(3, func(b *dbtest.TestBook) { b.Category = "History"; b.Publisher = "Ace" })

		res := s.list(token, url.Values{"category": {"fiction"}, "publisher": {"ace"}})
		require.Equal(t, []uuid.UUID{match}, ids(res.Data))
		require.Equal(t, int64(1), res.Meta.Total)
	})

	s.Run("publishedAt matches the whole calendar day", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com")

		day := time.Date(1999, 5, 20, 0, 0, 0, 0, time.UTC)
		early := s.insertBook(1, func(b *dbtest.TestBook) { b.PublishedAt = day })
		late := s.insertBook(2, func(b *dbtest.TestBook) { b.PublishedAt = day.Add(23*time.Hour + 59*time.Minute) })
		s.insertBook(3, func(b *dbtest.TestBook) { b.PublishedAt = day.Add(24 * time.Hour) })

		require.Equal(t, []uuid.UUID{early, late}, ids(s.list(token, url.Values{"publishedAt": {"1999-05-20"}}).Data))

		res := s.list(token, url.Values{"publishedAt": {"not-a-date"}})
		require.Equal(t, int64(3), res.Meta.Total)
	})

	s.Run("disabled books are listed only on request", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com")

		s.insertBook(1, nil)
		s.insertBook(2, func(b *dbtest.TestBook) { b.Enabled = false })

		require.Equal(t, int64(1), s.list(token, nil).Meta.Total)
		require.Equal(t, int64(2), s.list(token, url.Values{"includeDisabled": {"true"}}).Meta.Total)
		require.Equal(t, int64(1), s.list(token, url.Values{"includeDisabled": {"maybe"}}).Meta.Total)
	})
}

// TestAvailabilityAgreement checks that the SQL availability filter and the
// in-process evaluator classify every stored history shape the same way.
func (s *catalogSuite) TestAvailabilityAgreement() {
	histories := []string{
		`[]`,
		`[{"holder_name":"a","reserved_at":"2020-01-01T00:00:00Z"}]`,
		`[{"holder_name":"a","reserved_at":"2020-01-01T00:00:00Z","returned_at":null}]`,
		`[{"holder_name":"a","reserved_at":"2020-01-01T00:00:00Z","returned_at":"2020-01-02T00:00:00Z"}]`,
		`[{"holder_name":"a","reserved_at":"2020-01-01T00:00:00Z","returned_at":"2020-01-02T00:00:00Z"},{"holder_name":"b","reserved_at":"2020-02-01T00:00:00Z"}]`,
		`[{"reserved_at":"2020-01-01T00:00:00Z","returned_at":"2020-01-02T00:00:00Z"},{"reserved_at":"2020-03-01T00:00:00Z","returned_at":"2020-03-02T00:00:00Z"}]`,
	}

	s.Run("every history shape", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "reader@example.com")

		expected := map[uuid.UUID]bool{}
		for i, h := range histories {
			id := s.insertBook(i, func(b *dbtest.TestBook) { b.Reservations = h })

			docs, err := converter.DecodeBookHistory([]byte(h))
			require.NoError(t, err)
			expected[id] = book.IsAvailable(converter.BookEntriesToDomain(docs))
		}

		available := s.list(token, url.Values{"availability": {"available"}, "pageSize": {"50"}})
		reserved := s.list(token, url.Values{"availability": {"reserved"}, "pageSize": {"50"}})
		everything := s.list(token, url.Values{"availability": {"bogus"}, "pageSize": {"50"}})

		require.Equal(t, int64(len(histories)), everything.Meta.Total)
		require.Equal(t, everything.Meta.Total, available.Meta.Total+reserved.Meta.Total)

		for _, id := range ids(available.Data) {
			require.True(t, expected[id], "book %s listed as available", id)
		}
		for _, id := range ids(reserved.Data) {
			require.False(t, expected[id], "book %s listed as reserved", id)
		}

		for id, want := range expected {
			var view response.BookResponse
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, booksURL+"/"+id.String(), nil, token)
			httptest.AssertSuccessResponse(t, w, http.StatusOK, &view)
			require.Equal(t, want, view.Available, "book %s", id)
		}
	})
}
