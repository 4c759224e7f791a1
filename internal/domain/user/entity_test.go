//go:build unit

package user_test

import (
	"testing"
	"time"

	"library-backend/internal/domain/user"
	"library-backend/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestUser(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("test@example.com")
		expected, err := user.NewUser("Ana Lectora", email, "hashed_password", user.Roles{user.RoleUser}, actual.CreatedAt())
		require.NoError(t, err)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsEnabled())
		assert.Equal(t, user.Roles{user.RoleUser}, actual.Roles())
		assert.Empty(t, actual.Reservations())
	})

	t.Run("empty role set falls back to USER", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().WithRoles().BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, user.DefaultRoles(), actual.Roles())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid email",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "empty email",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "malformed email",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("name validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "blank name",
				mutate: func(b *builder.UserBuilder) { b.WithName("   ") },
				errIs:  user.ErrNameRequired,
			},
		})
	})

	t.Run("role validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "capability tags",
				mutate: func(b *builder.UserBuilder) { b.WithRoles("MODIFY_BOOKS", "DISABLE_USERS") },
			},
			{
				name:   "empty tag",
				mutate: func(b *builder.UserBuilder) { b.WithRoles("USER", "") },
				errIs:  user.ErrInvalidRole,
			},
			{
				name:   "tag with spaces",
				mutate: func(b *builder.UserBuilder) { b.WithRoles("MODIFY BOOKS") },
				errIs:  user.ErrInvalidRole,
			},
		})
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, actual)
			} else {
				require.Nil(t, actual)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestEmailIsNormalized(t *testing.T) {
	email, err := user.NewEmail("  Ana@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email.Value())
}

func TestRoles(t *testing.T) {
	roles, err := user.NewRoles([]string{"USER", "ADMIN", "USER"})
	require.NoError(t, err)
	assert.Equal(t, user.Roles{user.RoleUser, user.RoleAdmin}, roles)
	assert.True(t, roles.HasAny(user.RoleModifyUsers, user.RoleAdmin))
	assert.False(t, roles.Has(user.RoleModifyBooks))
	assert.Equal(t, []string{"USER", "ADMIN"}, roles.Strings())
}

func TestUserReservations(t *testing.T) {
	bookA, bookB := uuid.New(), uuid.New()

	t.Run("close picks the latest open entry for the book", func(t *testing.T) {
		u := builder.NewUserBuilder().BuildReconstructed()
		first := u.Reserve(uuid.New(), bookA, base)
		u.Reserve(uuid.New(), bookB, base.Add(time.Minute))
		second := u.Reserve(uuid.New(), bookA, base.Add(2*time.Minute))

		closed, ok := u.CloseFor(bookA, base.Add(time.Hour))
		require.True(t, ok)
		assert.Equal(t, *second.ID, *closed.ID)

		history := u.Reservations()
		assert.Nil(t, history[0].ReturnedAt, "older entry %s stays open", first.ID)
		assert.Nil(t, history[1].ReturnedAt)
		assert.NotNil(t, history[2].ReturnedAt)
	})

	t.Run("no open entry is a no-op", func(t *testing.T) {
		returned := base.Add(time.Hour)
		u := builder.NewUserBuilder().WithReservations(
			user.ReservationEntry{BookID: bookA, ReservedAt: base, ReturnedAt: &returned},
		).BuildReconstructed()
		before := u.Reservations()

		_, ok := u.CloseFor(bookA, base.Add(2*time.Hour))
		assert.False(t, ok)
		assert.Equal(t, before, u.Reservations())
	})
}

func TestApply(t *testing.T) {
	name := "Ana Renamed"
	email := "new@example.com"
	badEmail := "nope"
	password := "new-password"

	t.Run("updates profile fields", func(t *testing.T) {
		u := builder.NewUserBuilder().BuildReconstructed()
		err := u.Apply(user.Patch{Name: &name, Email: &email, Roles: []string{"ADMIN"}}, base)
		require.NoError(t, err)
		assert.Equal(t, name, u.Name())
		assert.Equal(t, email, u.Email().Value())
		assert.Equal(t, user.Roles{user.RoleAdmin}, u.Roles())
	})

	t.Run("invalid email keeps the record unchanged", func(t *testing.T) {
		u := builder.NewUserBuilder().BuildReconstructed()
		err := u.Apply(user.Patch{Name: &name, Email: &badEmail}, base)
		assert.ErrorIs(t, err, user.ErrInvalidEmail)
		assert.Equal(t, "Ana Lectora", u.Name())
	})

	t.Run("password is refused", func(t *testing.T) {
		u := builder.NewUserBuilder().BuildReconstructed()
		err := u.Apply(user.Patch{Password: &password}, base)
		assert.ErrorIs(t, err, user.ErrPasswordChangeNotAllowed)
	})

	t.Run("disable", func(t *testing.T) {
		u := builder.NewUserBuilder().BuildReconstructed()
		u.Disable(base)
		assert.False(t, u.IsEnabled())
		assert.Equal(t, base, u.UpdatedAt())
	})
}
