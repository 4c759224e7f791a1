//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"library-backend/internal/handler/dto/request"
	"library-backend/tests/common/dbtest"
	"library-backend/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/v1/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	accessCookie := httptest.ExtractCookie(w, "access_token")
	require.NotNil(t, accessCookie, "Access token not found in cookies")
	require.NotEmpty(t, accessCookie.Value, "Access token cookie is empty")

	return accessCookie.Value
}

// CreateAndLogin seeds a user with dbtest.TestPassword and logs in.
func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email string, roles ...string) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, roles...)
	return LoginUser(t, router, email, dbtest.TestPassword)
}
