//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"library-backend/internal/domain/access"
	"library-backend/internal/domain/auth"
	"library-backend/internal/domain/user"
	"library-backend/internal/pkg/clock"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/pkg/password"
	"library-backend/internal/usecase/commands"
	"library-backend/tests/common/builder"
	"library-backend/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserCommands(t *testing.T) (commands.UserCommands, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	clk := clock.NewMockClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	return commands.NewUserCommands(store, clk), store
}

func subjectOf(u *user.User) access.Subject {
	return access.Subject{ID: u.ID(), Roles: u.Roles()}
}

func TestUserCommandsCreateByAdmin(t *testing.T) {
	ctx := context.Background()
	sut, store := newUserCommands(t)

	reg, err := auth.NewRegistration("Pilar", "pilar@example.com", "password123")
	require.NoError(t, err)

	view, err := sut.CreateByAdmin(ctx, reg, user.Roles{user.RoleAdmin, user.RoleModifyBooks})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ADMIN", "MODIFY_BOOKS"}, view.Roles)

	stored := store.User(view.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash())
	assert.NoError(t, password.ComparePassword(stored.PasswordHash(), "password123"))

	_, err = sut.CreateByAdmin(ctx, reg, nil)
	assert.True(t, errs.Is(err, commands.ErrEmailTaken))
}

func TestUserCommandsUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("self update changes name and silently keeps roles", func(t *testing.T) {
		sut, store := newUserCommands(t)
		owner := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(owner)

		view, err := sut.Update(ctx, subjectOf(owner), owner.ID(), user.Patch{
			Name:  ptr("Ana María"),
			Roles: []string{"ADMIN"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana María", view.Name)
		assert.Equal(t, []string{"USER"}, view.Roles)
	})

	t.Run("password is never changed", func(t *testing.T) {
		sut, store := newUserCommands(t)
		owner := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(owner)

		_, err := sut.Update(ctx, subjectOf(owner), owner.ID(), user.Patch{Password: ptr("newpassword")})
		require.NoError(t, err)
		assert.Equal(t, owner.PasswordHash(), store.User(owner.ID()).PasswordHash())
	})

	t.Run("MODIFY_USERS may change another user's roles", func(t *testing.T) {
		sut, store := newUserCommands(t)
		manager := builder.NewUserBuilder().WithEmail("boss@example.com").WithRoles("MODIFY_USERS").BuildReconstructed()
		target := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(manager)
		store.PutUser(target)

		view, err := sut.Update(ctx, subjectOf(manager), target.ID(), user.Patch{Roles: []string{"USER", "CREATE_BOOKS"}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"USER", "CREATE_BOOKS"}, view.Roles)
	})

	t.Run("another user without MODIFY_USERS is forbidden", func(t *testing.T) {
		sut, store := newUserCommands(t)
		other := builder.NewUserBuilder().WithEmail("other@example.com").BuildReconstructed()
		target := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(other)
		store.PutUser(target)

		_, err := sut.Update(ctx, subjectOf(other), target.ID(), user.Patch{Name: ptr("x")})
		assert.True(t, errs.Is(err, commands.ErrForbidden))
		assert.Equal(t, target.Name(), store.User(target.ID()).Name())
	})

	t.Run("email already used by someone else is a conflict", func(t *testing.T) {
		sut, store := newUserCommands(t)
		other := builder.NewUserBuilder().WithEmail("taken@example.com").BuildReconstructed()
		owner := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(other)
		store.PutUser(owner)

		_, err := sut.Update(ctx, subjectOf(owner), owner.ID(), user.Patch{Email: ptr("taken@example.com")})
		assert.True(t, errs.Is(err, commands.ErrEmailTaken))
	})

	t.Run("invalid email is invalid input", func(t *testing.T) {
		sut, store := newUserCommands(t)
		owner := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(owner)

		_, err := sut.Update(ctx, subjectOf(owner), owner.ID(), user.Patch{Email: ptr("not-an-email")})
		assert.True(t, errs.Is(err, commands.ErrInvalidInput))
	})
}

func TestUserCommandsDisable(t *testing.T) {
	ctx := context.Background()

	t.Run("self disable", func(t *testing.T) {
		sut, store := newUserCommands(t)
		owner := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(owner)

		id, err := sut.Disable(ctx, subjectOf(owner), owner.ID())
		require.NoError(t, err)
		assert.Equal(t, owner.ID(), id)
		assert.False(t, store.User(owner.ID()).IsEnabled())

		_, err = sut.Disable(ctx, subjectOf(owner), owner.ID())
		assert.True(t, errs.Is(err, commands.ErrUserNotFound))
	})

	t.Run("DISABLE_USERS may disable others", func(t *testing.T) {
		sut, store := newUserCommands(t)
		admin := builder.NewUserBuilder().WithEmail("boss@example.com").WithRoles("DISABLE_USERS").BuildReconstructed()
		target := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(admin)
		store.PutUser(target)

		_, err := sut.Disable(ctx, subjectOf(admin), target.ID())
		require.NoError(t, err)
		assert.False(t, store.User(target.ID()).IsEnabled())
	})

	t.Run("others are forbidden before existence is checked", func(t *testing.T) {
		sut, store := newUserCommands(t)
		other := builder.NewUserBuilder().BuildReconstructed()
		store.PutUser(other)

		_, err := sut.Disable(ctx, subjectOf(other), uuid.New())
		assert.True(t, errs.Is(err, commands.ErrForbidden))
	})
}
