package api

import (
	"net/http"

	reqdto "library-backend/internal/handler/dto/request"
	resdto "library-backend/internal/handler/dto/response"
	"library-backend/internal/handler/httperr"
	"library-backend/internal/usecase/commands"
	"library-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	cmds commands.UserCommands
	q    queries.UserQueries
}

func NewUserHandler(cmds commands.UserCommands, q queries.UserQueries) *UserHandler {
	return &UserHandler{cmds: cmds, q: q}
}

// @Summary Create user
// @Description Admin-only creation with an explicit role set
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateUserRequest true "Create user request"
// @Success 201 {object} httperr.Response{result=resdto.UserResponse}
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req reqdto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	reg, roles, err := req.ToDomain()
	if err != nil {
		abortWithBadRequest(c, err)
		return
	}

	view, err := h.cmds.CreateByAdmin(c.Request.Context(), reg, roles)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	h.respondUser(c, http.StatusCreated, "User created", view)
}

// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param pageSize query int false "Page size"
// @Param includeDisabled query bool false "Include disabled users"
// @Success 200 {object} httperr.Response{result=resdto.UserListResponse}
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query reqdto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithBindError(c, err)
		return
	}

	page, err := h.q.List(c.Request.Context(), query.IncludesDisabled(), query.Page, query.PageSize)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromUserListPage(page)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "Users", res)
}

// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} httperr.Response{result=resdto.UserResponse}
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.q.Get(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	h.respondUser(c, http.StatusOK, "User", view)
}

// @Summary Update user
// @Description Self or ADMIN. Roles are only applied for ADMIN; password changes are rejected.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body reqdto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} httperr.Response{result=resdto.UserResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	view, err := h.cmds.Update(c.Request.Context(), subject, id, req.ToDomain())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	h.respondUser(c, http.StatusOK, "User updated", view)
}

// @Summary Disable user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} httperr.Response{result=resdto.IDResponse}
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id} [delete]
// @Router /users/{id}/disable [post]
func (h *UserHandler) Disable(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	disabled, err := h.cmds.Disable(c.Request.Context(), subject, id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "User disabled", resdto.IDResponse{ID: disabled})
}

// @Summary User reservation history
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} httperr.Response{result=[]resdto.UserHistoryResponse}
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /users/{id}/reservations [get]
func (h *UserHandler) History(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	entries, err := h.q.History(c.Request.Context(), subject, id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "User reservations", resdto.FromUserHistory(entries))
}

func (h *UserHandler) respondUser(c *gin.Context, code int, msg string, view *queries.UserView) {
	res, err := resdto.FromUserView(view)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, code, msg, res)
}
