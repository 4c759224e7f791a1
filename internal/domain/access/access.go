// Package access holds the authorization predicates for write and history
// operations. Each rule is a pure function of the caller, the owner of the
// target record and, for books, the set of fields being modified.
package access

import (
	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"

	"github.com/google/uuid"
)

// Subject is the authenticated caller as reloaded from storage.
type Subject struct {
	ID    uuid.UUID
	Roles user.Roles
}

func (s Subject) IsSelf(ownerID uuid.UUID) bool {
	return s.ID != uuid.Nil && s.ID == ownerID
}

// HasAny is the route-level gate.
func HasAny(s Subject, roles ...user.Role) bool {
	return s.Roles.HasAny(roles...)
}

// CanUpdateBook requires MODIFY_BOOKS as soon as one informational field is
// touched. Operational fields alone need no extra capability.
func CanUpdateBook(s Subject, fields []book.Field) bool {
	for _, f := range fields {
		if f.IsInformational() {
			return s.Roles.Has(user.RoleModifyBooks)
		}
	}
	return true
}

func CanUpdateUser(s Subject, ownerID uuid.UUID) bool {
	return s.IsSelf(ownerID) || s.Roles.Has(user.RoleModifyUsers)
}

// SanitizeUserPatch drops the fields the generic update path never accepts
// from this subject: the password always, roles without MODIFY_USERS.
func SanitizeUserPatch(s Subject, p user.Patch) user.Patch {
	p.Password = nil
	if !s.Roles.Has(user.RoleModifyUsers) {
		p.Roles = nil
	}
	return p
}

func CanDisableUser(s Subject, ownerID uuid.UUID) bool {
	return s.IsSelf(ownerID) || s.Roles.Has(user.RoleDisableUsers)
}

func CanViewUserHistory(s Subject, ownerID uuid.UUID) bool {
	return s.IsSelf(ownerID) || s.Roles.Has(user.RoleAdmin)
}

var (
	CreateBookRoles  = []user.Role{user.RoleAdmin, user.RoleCreateBooks}
	UpdateBookRoles  = []user.Role{user.RoleAdmin, user.RoleModifyBooks}
	DisableBookRoles = []user.Role{user.RoleAdmin, user.RoleDisableBooks}
	CirculationRoles = []user.Role{user.RoleUser, user.RoleAdmin}
	AdminRoles       = []user.Role{user.RoleAdmin}
)
