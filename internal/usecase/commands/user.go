package commands

import (
	"context"
	"time"

	"library-backend/internal/domain/access"
	"library-backend/internal/domain/auth"
	"library-backend/internal/domain/user"
	"library-backend/internal/pkg/clock"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/pkg/password"
	"library-backend/internal/usecase/queries"
	"library-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrPasswordHashing = errs.New("password hashing failed")

type UserCommands interface {
	// CreateByAdmin creates a user with an explicit role set.
	CreateByAdmin(ctx context.Context, reg auth.Registration, roles user.Roles) (*queries.UserView, error)
	Update(ctx context.Context, subject access.Subject, id uuid.UUID, patch user.Patch) (*queries.UserView, error)
	Disable(ctx context.Context, subject access.Subject, id uuid.UUID) (uuid.UUID, error)
}

type userCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewUserCommands(uow shared.UnitOfWork, clock clock.Clock) UserCommands {
	return &userCommandsImpl{
		uow:   uow,
		clock: clock,
	}
}

func (c *userCommandsImpl) CreateByAdmin(ctx context.Context, reg auth.Registration, roles user.Roles) (*queries.UserView, error) {
	return createUser(ctx, c.uow, reg, roles, c.clock.Now().UTC())
}

// Update never changes the password, and drops role changes unless the
// subject may manage users.
func (c *userCommandsImpl) Update(ctx context.Context, subject access.Subject, id uuid.UUID, patch user.Patch) (*queries.UserView, error) {
	if !access.CanUpdateUser(subject, id) {
		return nil, ErrForbidden
	}
	patch = access.SanitizeUserPatch(subject, patch)

	var updated *user.User
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapUserLookupErr(err)
		}
		if !u.IsEnabled() {
			return ErrUserNotFound
		}
		if err := u.Apply(patch, c.clock.Now().UTC()); err != nil {
			return markValidation(err)
		}
		updated = u
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	return toUserView(updated), nil
}

func (c *userCommandsImpl) Disable(ctx context.Context, subject access.Subject, id uuid.UUID) (uuid.UUID, error) {
	if !access.CanDisableUser(subject, id) {
		return uuid.Nil, ErrForbidden
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapUserLookupErr(err)
		}
		if !u.IsEnabled() {
			return ErrUserNotFound
		}
		u.Disable(c.clock.Now().UTC())
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func createUser(ctx context.Context, uow shared.UnitOfWork, reg auth.Registration, roles user.Roles, now time.Time) (*queries.UserView, error) {
	hash, err := password.HashPassword(reg.Password().Value())
	if err != nil {
		return nil, errs.Mark(err, ErrPasswordHashing)
	}

	u, err := user.NewUser(reg.Name(), reg.Email(), hash, roles, now)
	if err != nil {
		return nil, markValidation(err)
	}

	err = uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		return nil, mapUserWriteErr(err)
	}
	return toUserView(u), nil
}

func toUserView(u *user.User) *queries.UserView {
	return &queries.UserView{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email().Value(),
		Roles:     u.Roles().Strings(),
		Enabled:   u.IsEnabled(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
