//go:build unit

package access_test

import (
	"testing"

	"library-backend/internal/domain/access"
	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func subject(id uuid.UUID, roles ...user.Role) access.Subject {
	return access.Subject{ID: id, Roles: user.Roles(roles)}
}

func TestCanUpdateBook(t *testing.T) {
	caller := uuid.New()

	tests := []struct {
		name     string
		subject  access.Subject
		fields   []book.Field
		expected bool
	}{
		{
			name:     "informational field with MODIFY_BOOKS",
			subject:  subject(caller, user.RoleModifyBooks),
			fields:   []book.Field{book.FieldTitle},
			expected: true,
		},
		{
			name:     "informational field without MODIFY_BOOKS",
			subject:  subject(caller, user.RoleAdmin),
			fields:   []book.Field{book.FieldStock, book.FieldPublishedAt},
			expected: false,
		},
		{
			name:     "operational fields only",
			subject:  subject(caller, user.RoleAdmin),
			fields:   []book.Field{book.FieldStock, book.FieldEnabled},
			expected: true,
		},
		{
			name:     "empty patch",
			subject:  subject(caller),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, access.CanUpdateBook(tt.subject, tt.fields))
		})
	}
}

func TestOwnershipPredicates(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	tests := []struct {
		name      string
		predicate func(access.Subject, uuid.UUID) bool
		subject   access.Subject
		owner     uuid.UUID
		expected  bool
	}{
		{"update self", access.CanUpdateUser, subject(self, user.RoleUser), self, true},
		{"update other without capability", access.CanUpdateUser, subject(self, user.RoleAdmin), other, false},
		{"update other with MODIFY_USERS", access.CanUpdateUser, subject(self, user.RoleModifyUsers), other, true},
		{"disable self", access.CanDisableUser, subject(self), self, true},
		{"disable other without capability", access.CanDisableUser, subject(self, user.RoleModifyUsers), other, false},
		{"disable other with DISABLE_USERS", access.CanDisableUser, subject(self, user.RoleDisableUsers), other, true},
		{"history of self", access.CanViewUserHistory, subject(self, user.RoleUser), self, true},
		{"history of other as admin", access.CanViewUserHistory, subject(self, user.RoleAdmin), other, true},
		{"history of other as user", access.CanViewUserHistory, subject(self, user.RoleUser), other, false},
		{"nil subject is never self", access.CanUpdateUser, subject(uuid.Nil), uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.predicate(tt.subject, tt.owner))
		})
	}
}

func TestSanitizeUserPatch(t *testing.T) {
	name := "Ana"
	password := "secret-password"
	patch := user.Patch{Name: &name, Password: &password, Roles: []string{"ADMIN"}}

	t.Run("plain user loses roles and password", func(t *testing.T) {
		got := access.SanitizeUserPatch(subject(uuid.New(), user.RoleUser), patch)
		assert.Equal(t, user.Patch{Name: &name}, got)
	})

	t.Run("MODIFY_USERS keeps roles but never the password", func(t *testing.T) {
		got := access.SanitizeUserPatch(subject(uuid.New(), user.RoleModifyUsers), patch)
		assert.Equal(t, user.Patch{Name: &name, Roles: []string{"ADMIN"}}, got)
	})
}

func TestRouteGates(t *testing.T) {
	assert.True(t, access.HasAny(subject(uuid.New(), user.RoleCreateBooks), access.CreateBookRoles...))
	assert.True(t, access.HasAny(subject(uuid.New(), user.RoleAdmin), access.DisableBookRoles...))
	assert.False(t, access.HasAny(subject(uuid.New(), user.RoleUser), access.UpdateBookRoles...))
	assert.True(t, access.HasAny(subject(uuid.New(), user.RoleUser), access.CirculationRoles...))
	assert.False(t, access.HasAny(subject(uuid.New(), user.RoleModifyBooks), access.CirculationRoles...))
	assert.False(t, access.HasAny(subject(uuid.New()), access.AdminRoles...))
}
