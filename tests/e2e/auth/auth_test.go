//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"library-backend/internal/domain/user"
	"library-backend/internal/handler/dto/request"
	"library-backend/internal/handler/dto/response"
	"library-backend/tests/common/authtest"
	"library-backend/tests/common/dbtest"
	"library-backend/tests/common/httptest"
	"library-backend/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/v1/auth/register"
	loginURL    = "/api/v1/auth/login"
	logoutURL   = "/api/v1/auth/logout"
	meURL       = "/api/v1/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "admin@example.com", string(user.RoleAdmin))
	dbtest.CreateTestUser(s.T(), s.DB, "reader@example.com")
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com")

	_, err := s.DB.Exec(s.T().Context(), "UPDATE users SET enabled = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	tests := []struct {
		name           string
		body           request.RegisterRequest
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "new account",
			body:           request.RegisterRequest{Name: "Alice", Email: "Alice@Example.com", Password: "password123"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "email already registered",
			body:           request.RegisterRequest{Name: "Again", Email: "reader@example.com", Password: "password123"},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "Email already registered",
		},
		{
			name:           "email owned by disabled account",
			body:           request.RegisterRequest{Name: "Again", Email: "inactive@example.com", Password: "password123"},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "Email already registered",
		},
		{
			name:           "short password",
			body:           request.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "short"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, tt.body, "")
			if tt.expectedStatus != http.StatusCreated {
				require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
				if tt.expectedMsg != "" {
					httptest.AssertErrorResponse(t, w, tt.expectedStatus, tt.expectedMsg)
				}
				return
			}

			var res response.RegisterResponse
			httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
			require.Equal(t, "alice@example.com", res.Email)

			var roles []string
			err := s.DB.QueryRow(t.Context(), "SELECT roles FROM users WHERE id = $1", res.ID).Scan(&roles)
			require.NoError(t, err)
			require.Equal(t, []string{string(user.RoleUser)}, roles)

			token := authtest.LoginUser(t, s.Router, "alice@example.com", "password123")
			require.NotEmpty(t, token)
		})
	}
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid credentials", email: "reader@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusOK},
		{name: "email is case insensitive", email: "READER@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nobody@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "admin@example.com", password: "wrongpassword", expectedStatus: http.StatusUnauthorized},
		{name: "disabled user", email: "inactive@example.com", password: dbtest.TestPassword, expectedStatus: http.StatusUnauthorized},
		{name: "empty email", email: "", password: dbtest.TestPassword, expectedStatus: http.StatusBadRequest},
		{name: "empty password", email: "reader@example.com", password: "", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var res response.LoginResponse
				httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
				require.NotEmpty(t, res.Token)
				require.Positive(t, res.ExpiresIn)

				cookie := httptest.ExtractCookie(w, "access_token")
				require.NotNil(t, cookie)
				require.Equal(t, res.Token, cookie.Value)
			}
		})
	}
}

func (s *authSuite) TestLoginLockout() {
	s.Run("repeated failures lock the account", func() {
		t := s.T()
		email := "lockout@example.com"
		dbtest.CreateTestUser(t, s.DB, email)

		threshold := s.Config.Redis.LockoutThreshold
		for i := 1; i < threshold; i++ {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				request.LoginRequest{Email: email, Password: "wrongpassword"}, "")
			require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: email, Password: "wrongpassword"}, "")
		httptest.AssertErrorResponse(t, w, http.StatusTooManyRequests, "Too many failed login attempts")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: email, Password: dbtest.TestPassword}, "")
		require.Equal(t, http.StatusTooManyRequests, w.Code, "correct password is refused while locked")
	})

	s.Run("successful login resets the counter", func() {
		t := s.T()
		email := "recovering@example.com"
		dbtest.CreateTestUser(t, s.DB, email)

		threshold := s.Config.Redis.LockoutThreshold
		for round := 0; round < 2; round++ {
			for i := 1; i < threshold; i++ {
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
					request.LoginRequest{Email: email, Password: "wrongpassword"}, "")
				require.Equal(t, http.StatusUnauthorized, w.Code)
			}
			authtest.LoginUser(t, s.Router, email, dbtest.TestPassword)
		}
	})
}

func (s *authSuite) TestLogout() {
	s.Run("clears the access cookie", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "reader@example.com", dbtest.TestPassword)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		cookie := httptest.ExtractCookie(w, "access_token")
		require.NotNil(t, cookie)
		require.Empty(t, cookie.Value)
	})
}

func (s *authSuite) TestMe() {
	tests := []struct {
		name           string
		setupUser      func() (string, string, string) // email, role, token
		expectedStatus int
	}{
		{
			name: "admin",
			setupUser: func() (string, string, string) {
				email := "admin2@example.com"
				role := string(user.RoleAdmin)
				return email, role, authtest.CreateAndLogin(s.T(), s.DB, s.Router, email, role)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "regular user",
			setupUser: func() (string, string, string) {
				email := "reader2@example.com"
				role := string(user.RoleUser)
				return email, role, authtest.CreateAndLogin(s.T(), s.DB, s.Router, email, role)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "invalid token",
			setupUser: func() (string, string, string) {
				return "", "", "invalid-token"
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "no token",
			setupUser: func() (string, string, string) {
				return "", "", ""
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			email, role, token := tt.setupUser()
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var res response.UserResponse
				httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
				require.Equal(t, email, res.Email)
				require.Contains(t, res.Roles, role)
				require.NotContains(t, w.Body.String(), "password")
			}
		})
	}
}

func (s *authSuite) TestTokenRevalidation() {
	s.Run("expired token is rejected", func() {
		t := s.T()
		userID := dbtest.CreateTestUser(t, s.DB, "expiry@example.com", string(user.RoleAdmin))

		token := s.jwt.CreateExpiredToken(t, userID, string(user.RoleAdmin))
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("disabling the user invalidates a live token", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "reader@example.com", dbtest.TestPassword)

		_, err := s.DB.Exec(t.Context(), "UPDATE users SET enabled = false WHERE email = 'reader@example.com'")
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("roles are reloaded from storage", func() {
		t := s.T()
		token := authtest.LoginUser(t, s.Router, "reader@example.com", dbtest.TestPassword)

		_, err := s.DB.Exec(t.Context(), "UPDATE users SET roles = ARRAY['USER','CREATE_BOOKS'] WHERE email = 'reader@example.com'")
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		var res response.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &res)
		require.ElementsMatch(t, []string{"USER", "CREATE_BOOKS"}, res.Roles)
	})
}
