package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"library-backend/internal/domain/access"
	"library-backend/internal/domain/user"
	"library-backend/internal/handler/httperr"
	"library-backend/internal/pkg/cookie"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/pkg/jwt"
	"library-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errTokenRequired = errs.New("access token required")
	errInvalidToken  = errs.New("invalid or expired token")
	errUnknownUser   = errs.New("user missing or disabled")
	errNoPermission  = errs.New("insufficient permissions")
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// CurrentUserLoader reloads the caller on every request so that disabled
// users and role changes take effect before the token expires.
type CurrentUserLoader interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*queries.UserView, error)
}

type AuthMiddleware struct {
	tokens TokenValidator
	users  CurrentUserLoader
}

const (
	ctxUserIDKey  = "user_id"
	ctxSubjectKey = "subject"
)

func NewAuthMiddleware(tokens TokenValidator, users CurrentUserLoader) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired, "Access token required")
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.Mark(err, errInvalidToken), "Invalid or expired token")
			return
		}

		current, err := m.users.GetCurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errs.Is(err, queries.ErrUserNotFound) {
				httperr.AbortWithError(c, http.StatusUnauthorized, errs.Mark(err, errUnknownUser), "Invalid or expired token")
				return
			}
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
			return
		}

		roles := make(user.Roles, 0, len(current.Roles))
		for _, r := range current.Roles {
			roles = append(roles, user.Role(r))
		}

		c.Set(ctxUserIDKey, current.ID)
		c.Set(ctxSubjectKey, access.Subject{ID: current.ID, Roles: roles})
		c.Set("jwt_claims", map[string]any{
			"user_id": current.ID.String(),
			"role":    strings.Join(current.Roles, ","),
		})
		c.Next()
	}
}

// RequireAnyRole must run after RequireAuth.
func (m *AuthMiddleware) RequireAnyRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := GetSubject(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired, "Access token required")
			return
		}
		if !access.HasAny(subject, roles...) {
			httperr.AbortWithError(c, http.StatusForbidden, errNoPermission, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// extractToken prefers the Authorization header and falls back to the cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(authHeader[len("Bearer "):]); token != "" {
			return token
		}
	}
	return cookie.GetAccessToken(c)
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetSubject(c *gin.Context) (access.Subject, bool) {
	v, exists := c.Get(ctxSubjectKey)
	if !exists {
		return access.Subject{}, false
	}
	s, ok := v.(access.Subject)
	return s, ok
}

// SetSubject is used by handler tests that bypass RequireAuth.
func SetSubject(c *gin.Context, s access.Subject) {
	c.Set(ctxUserIDKey, s.ID)
	c.Set(ctxSubjectKey, s)
}
