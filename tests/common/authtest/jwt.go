//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, roles ...string) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	token, err := jwt.NewService(h.cfg.Secret, duration).GenerateToken(userID, roles)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, roles ...string) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, -time.Minute).GenerateToken(userID, roles)
	require.NoError(t, err)
	return token
}
