package api

import (
	"net/http"
	"time"

	reqdto "library-backend/internal/handler/dto/request"
	resdto "library-backend/internal/handler/dto/response"
	"library-backend/internal/handler/httperr"
	"library-backend/internal/pkg/config"
	"library-backend/internal/usecase/commands"
	"library-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	cmds     commands.BookCommands
	q        queries.BookQueries
	location *time.Location
}

func NewBookHandler(cmds commands.BookCommands, q queries.BookQueries, cfg config.Config) *BookHandler {
	return &BookHandler{cmds: cmds, q: q, location: cfg.Catalog.Location()}
}

// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookRequest true "Create book request"
// @Success 201 {object} httperr.Response{result=resdto.BookResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	params, err := req.ToDomain(h.location)
	if err != nil {
		abortWithBadRequest(c, err)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), params)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	h.respondBook(c, http.StatusCreated, "Book created", view)
}

// @Summary List books
// @Description Paginated listing with optional filters. Malformed values are ignored.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Param includeDisabled query bool false "Include disabled books"
// @Param category query string false "Category substring, case insensitive"
// @Param author query string false "Author substring, case insensitive"
// @Param title query string false "Title substring, case insensitive"
// @Param publisher query string false "Publisher substring, case insensitive"
// @Param publishedAt query string false "Publication day (YYYY-MM-DD)"
// @Param availability query string false "available or reserved"
// @Success 200 {object} httperr.Response{result=resdto.BookListResponse}
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	var query reqdto.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithBindError(c, err)
		return
	}

	page, err := h.q.List(c.Request.Context(), query.ToParams())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "Books", resdto.FromBookListPage(page))
}

// @Summary Get book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} httperr.Response{result=resdto.BookResponse}
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	h.respondBook(c, http.StatusOK, "Book", view)
}

// @Summary Update book
// @Description Informational fields need MODIFY_BOOKS; stock and enabled need ADMIN.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Param request body reqdto.UpdateBookRequest true "Fields to change"
// @Success 200 {object} httperr.Response{result=resdto.BookResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	patch, err := req.ToDomain(h.location)
	if err != nil {
		abortWithBadRequest(c, err)
		return
	}

	view, err := h.cmds.Update(c.Request.Context(), subject, id, patch)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	h.respondBook(c, http.StatusOK, "Book updated", view)
}

// @Summary Disable book
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} httperr.Response{result=resdto.IDResponse}
// @Failure 404 {object} httperr.Response
// @Router /books/{id} [delete]
func (h *BookHandler) Disable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	disabled, err := h.cmds.Disable(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "Book disabled", resdto.IDResponse{ID: disabled})
}

// @Summary Book reservation history
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} httperr.Response{result=[]resdto.BookHistoryResponse}
// @Failure 404 {object} httperr.Response
// @Router /books/{id}/reservations [get]
func (h *BookHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	entries, err := h.q.History(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromBookHistory(entries)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "Book reservations", res)
}

func (h *BookHandler) respondBook(c *gin.Context, code int, msg string, view *queries.BookView) {
	res, err := resdto.FromBookView(view)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, code, msg, res)
}
