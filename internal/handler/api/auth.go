package api

import (
	"net/http"

	reqdto "library-backend/internal/handler/dto/request"
	resdto "library-backend/internal/handler/dto/response"
	"library-backend/internal/handler/httperr"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/cookie"
	"library-backend/internal/usecase/commands"
	"library-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cmds commands.AuthCommands
	q    queries.UserQueries
	cfg  config.Config
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.UserQueries, cfg config.Config) *AuthHandler {
	return &AuthHandler{cmds: cmds, q: q, cfg: cfg}
}

// @Summary Register
// @Description Self-registration with the default USER role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} httperr.Response{result=resdto.RegisterResponse}
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	reg, err := req.ToDomain()
	if err != nil {
		abortWithBadRequest(c, err)
		return
	}

	view, err := h.cmds.Register(c.Request.Context(), reg)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusCreated, "User registered", resdto.FromRegisteredUser(view))
}

// @Summary User login
// @Description Login with email and password. The token is also set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} httperr.Response{result=resdto.LoginResponse}
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	credentials, err := req.ToDomain()
	if err != nil {
		abortWithBadRequest(c, err)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), credentials)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	cookie.SetAccessToken(c, h.cfg.Cookie, result.AccessToken, result.ExpiresIn)
	httperr.Success(c, http.StatusOK, "Login successful", resdto.FromLoginResult(result))
}

// @Summary User logout
// @Description Clears the access token cookie
// @Tags auth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessToken(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} httperr.Response{result=resdto.UserResponse}
// @Failure 401 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		return
	}

	view, err := h.q.GetCurrentUser(c.Request.Context(), subject.ID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromUserView(view)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "Current user", res)
}
