//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"library-backend/internal/domain/access"
	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"
	"library-backend/internal/handler/api"
	resdto "library-backend/internal/handler/dto/response"
	"library-backend/internal/handler/middleware"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/pkg/pagination"
	"library-backend/internal/usecase/commands"
	"library-backend/internal/usecase/queries"
	"library-backend/tests/common/httptest"
	"library-backend/tests/common/testutil"
	commandsmock "library-backend/tests/mock/commands"
	queriesmock "library-backend/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookCommands
	mockQueries  *queriesmock.MockBookQueries
	subject      access.Subject
}

func (s *BookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookQueries(s.mockCtrl)
	s.subject = access.Subject{ID: uuid.New(), Roles: user.Roles{user.RoleModifyBooks}}
	h := api.NewBookHandler(s.mockCommands, s.mockQueries, config.NewTestConfig())

	s.router.Use(func(c *gin.Context) {
		middleware.SetSubject(c, s.subject)
		c.Next()
	})
	s.router.POST("/books", h.Create)
	s.router.GET("/books", h.List)
	s.router.GET("/books/:id", h.Get)
	s.router.PUT("/books/:id", h.Update)
	s.router.DELETE("/books/:id", h.Disable)
	s.router.GET("/books/:id/reservations", h.History)
}

func (s *BookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookHandlerTestSuite))
}

func sampleBookView() *queries.BookView {
	return &queries.BookView{
		ID:          uuid.New(),
		Title:       "El Quijote",
		Author:      "Cervantes",
		Category:    "Novel",
		Publisher:   "Juan de la Cuesta",
		PublishedAt: time.Date(1605, 1, 16, 0, 0, 0, 0, time.UTC),
		Stock:       2,
		Enabled:     true,
		Available:   true,
	}
}

func (s *BookHandlerTestSuite) TestCreate() {
	body := map[string]any{
		"title":       "El Quijote",
		"author":      "Cervantes",
		"category":    "Novel",
		"publisher":   "Juan de la Cuesta",
		"publishedAt": "1605-01-16",
		"stock":       2,
	}

	s.Run("success: parses the publication day and returns 201", func() {
		view := sampleBookView()
		s.mockCommands.EXPECT().Create(gomock.Any(), book.NewBookParams{
			Title:       "El Quijote",
			Author:      "Cervantes",
			Category:    "Novel",
			Publisher:   "Juan de la Cuesta",
			PublishedAt: time.Date(1605, 1, 16, 0, 0, 0, 0, time.UTC),
			Stock:       2,
		}).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/books", body, "")

		var response resdto.BookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal("El Quijote", response.Title)
		s.True(response.Available)
	})

	s.Run("error: 400 on missing or malformed fields", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing title", mutate: testutil.Field("title", nil)},
			{name: "missing stock", mutate: testutil.Field("stock", nil)},
			{name: "bad date", mutate: testutil.Field("publishedAt", "16/01/1605")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/books", testutil.DtoMap(s.T(), body, tc.mutate), "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: bind failures use fixed messages", func() {
		cases := []struct {
			name    string
			body    any
			wantMsg string
		}{
			{name: "missing fields are named by their json key", body: testutil.DtoMap(s.T(), body, testutil.Field("publishedAt", nil)), wantMsg: "Missing or invalid fields: publishedAt"},
			{name: "wrong json type", body: testutil.DtoMap(s.T(), body, testutil.Field("title", 42)), wantMsg: "Malformed request"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/books", tc.body, "")

				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.wantMsg)
				s.NotContains(rec.Body.String(), "CreateBookRequest")
				s.NotContains(rec.Body.String(), "Go struct")
			})
		}
	})

	s.Run("error: domain validation surfaces its message", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(book.ErrNegativeStock, commands.ErrInvalidInput)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/books",
			testutil.DtoMap(s.T(), body, testutil.Field("stock", -1)), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "stock cannot be negative")
	})
}

func (s *BookHandlerTestSuite) TestList() {
	s.Run("success: forwards raw query values and wraps data with meta", func() {
		item := queries.BookListItem{ID: uuid.New(), Title: "El Quijote"}
		s.mockQueries.EXPECT().List(gomock.Any(), queries.BookListParams{
			Page:         "2",
			PageSize:     "abc",
			Author:       "cervantes",
			Availability: "available",
		}).Return(&queries.BookListPage{
			Items: []queries.BookListItem{item},
			Meta:  pagination.Meta{Page: 2, PerPage: 10, Total: 11, TotalPages: 2},
		}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/books?page=2&pageSize=abc&author=cervantes&availability=available", nil, "")

		var response resdto.BookListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Data, 1)
		s.Equal(item.ID, response.Data[0].ID)
		s.Equal(int64(11), response.Meta.Total)
		s.Equal(int64(2), response.Meta.TotalPages)
	})

	s.Run("success: empty page renders an empty array", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any()).
			Return(&queries.BookListPage{Meta: pagination.Meta{Page: 1, PerPage: 10}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/books", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"data":[]`)
	})
}

func (s *BookHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		view := sampleBookView()
		s.mockQueries.EXPECT().Get(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/books/"+view.ID.String(), nil, "")

		var response resdto.BookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.Publisher, response.Publisher)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/books/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 for missing or disabled book", func() {
		s.mockQueries.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errors.New("no rows"), queries.ErrBookNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/books/"+uuid.NewString(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Book not found")
	})
}

func (s *BookHandlerTestSuite) TestUpdate() {
	id := uuid.New()

	s.Run("success: passes subject and patch through", func() {
		title := "Don Quijote"
		view := sampleBookView()
		view.Title = title
		s.mockCommands.EXPECT().Update(gomock.Any(), s.subject, id, book.Patch{Title: &title}).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/books/"+id.String(), map[string]any{"title": title}, "")

		var response resdto.BookResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(title, response.Title)
	})

	s.Run("error: maps usecase errors", func() {
		cases := []struct {
			name   string
			err    error
			status int
		}{
			{name: "forbidden field", err: commands.ErrForbidden, status: http.StatusForbidden},
			{name: "empty patch", err: errs.Mark(commands.ErrEmptyBookPatch, commands.ErrInvalidInput), status: http.StatusBadRequest},
			{name: "disabled book", err: commands.ErrBookNotFound, status: http.StatusNotFound},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Update(gomock.Any(), gomock.Any(), id, gomock.Any()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/books/"+id.String(), map[string]any{"stock": 3}, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, "")
			})
		}
	})
}

func (s *BookHandlerTestSuite) TestDisable() {
	id := uuid.New()
	s.mockCommands.EXPECT().Disable(gomock.Any(), id).Return(id, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/books/"+id.String(), nil, "")

	var response resdto.IDResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
	s.Equal(id, response.ID)
}

func (s *BookHandlerTestSuite) TestHistory() {
	id := uuid.New()
	reservedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.mockQueries.EXPECT().History(gomock.Any(), id).Return([]queries.BookHistoryEntry{
		{HolderName: queries.DeletedUserName, ReservedAt: reservedAt},
	}, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/books/"+id.String()+"/reservations", nil, "")

	var response []resdto.BookHistoryResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
	s.Require().Len(response, 1)
	s.Equal("Deleted user", response[0].HolderName)
	s.True(reservedAt.Equal(response[0].ReservedAt))
	s.Nil(response[0].ReturnedAt)
	s.Contains(rec.Body.String(), `"returnedAt":null`)
}
