package commands

import (
	"context"
	"log/slog"
	"time"

	"library-backend/internal/domain/auth"
	"library-backend/internal/domain/user"
	"library-backend/internal/infra"
	"library-backend/internal/pkg/clock"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/pkg/password"
	"library-backend/internal/usecase/queries"
	"library-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrTooManyAttempts    = errs.New("too many failed login attempts")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
	ExpiresIn   time.Duration
}

// TokenIssuer signs access tokens carrying the user id and role set.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, roles []string) (string, error)
	TokenDuration() time.Duration
}

type AuthCommands interface {
	Register(ctx context.Context, reg auth.Registration) (*queries.UserView, error)
	Login(ctx context.Context, credentials auth.Credentials) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow       shared.UnitOfWork
	readStore queries.UserReadStore
	tokens    TokenIssuer
	lockout   LockoutStore
	clock     clock.Clock
	threshold int
	window    time.Duration
	logger    *slog.Logger
}

func NewAuthCommands(
	uow shared.UnitOfWork,
	readStore queries.UserReadStore,
	tokens TokenIssuer,
	lockout LockoutStore,
	clock clock.Clock,
	cfg config.RedisConfig,
	logger *slog.Logger,
) AuthCommands {
	return &authCommandsImpl{
		uow:       uow,
		readStore: readStore,
		tokens:    tokens,
		lockout:   lockout,
		clock:     clock,
		threshold: cfg.LockoutThreshold,
		window:    cfg.LockoutWindow,
		logger:    logger,
	}
}

// Register creates a self-service account with the default role set.
func (a *authCommandsImpl) Register(ctx context.Context, reg auth.Registration) (*queries.UserView, error) {
	return createUser(ctx, a.uow, reg, user.DefaultRoles(), a.clock.Now().UTC())
}

// Login reports a missing user, a disabled user and a wrong password with the
// same error. Lockout state is best effort: if the store is unreachable the
// attempt proceeds.
func (a *authCommandsImpl) Login(ctx context.Context, credentials auth.Credentials) (*LoginResult, error) {
	key := credentials.Email().Value()
	now := a.clock.Now().UTC()

	state, err := a.lockout.Get(ctx, key)
	if err != nil {
		a.logger.WarnContext(ctx, "lockout lookup failed", slog.String("error", err.Error()))
	} else if state.IsLocked(now) {
		return nil, ErrTooManyAttempts
	}

	creds, err := a.readStore.FindCredentialsByEmail(ctx, key)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, err
		}
		return nil, a.recordFailure(ctx, key, now)
	}
	if !creds.Enabled {
		return nil, a.recordFailure(ctx, key, now)
	}
	if err := password.ComparePassword(creds.PasswordHash, credentials.Password()); err != nil {
		return nil, a.recordFailure(ctx, key, now)
	}

	if err := a.lockout.Clear(ctx, key); err != nil {
		a.logger.WarnContext(ctx, "lockout reset failed", slog.String("error", err.Error()))
	}

	token, err := a.tokens.GenerateToken(creds.ID, creds.Roles)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{
		UserID:      creds.ID,
		AccessToken: token,
		ExpiresIn:   a.tokens.TokenDuration(),
	}, nil
}

func (a *authCommandsImpl) recordFailure(ctx context.Context, key string, now time.Time) error {
	state, err := a.lockout.RecordFailure(ctx, key, now, a.threshold, a.window)
	if err != nil {
		a.logger.WarnContext(ctx, "lockout update failed", slog.String("error", err.Error()))
		return ErrInvalidCredentials
	}
	if state.IsLocked(now) {
		return ErrTooManyAttempts
	}
	return ErrInvalidCredentials
}
