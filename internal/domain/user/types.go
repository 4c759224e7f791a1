package user

import (
	"slices"
	"strings"
)

// Role is an opaque capability tag. The constants are the tags the service
// itself checks; other tags are stored and returned untouched.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleUser         Role = "USER"
	RoleCreateBooks  Role = "CREATE_BOOKS"
	RoleModifyBooks  Role = "MODIFY_BOOKS"
	RoleDisableBooks Role = "DISABLE_BOOKS"
	RoleModifyUsers  Role = "MODIFY_USERS"
	RoleDisableUsers Role = "DISABLE_USERS"
)

func (r Role) String() string {
	return string(r)
}

func NewRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return "", ErrInvalidRole
	}
	return Role(s), nil
}

// Roles is an ordered set of tags without duplicates.
type Roles []Role

func DefaultRoles() Roles {
	return Roles{RoleUser}
}

func NewRoles(values []string) (Roles, error) {
	roles := make(Roles, 0, len(values))
	for _, v := range values {
		role, err := NewRole(v)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

func (r Roles) Has(role Role) bool {
	return slices.Contains(r, role)
}

func (r Roles) HasAny(roles ...Role) bool {
	for _, role := range roles {
		if r.Has(role) {
			return true
		}
	}
	return false
}

func (r Roles) Strings() []string {
	out := make([]string, len(r))
	for i, role := range r {
		out[i] = string(role)
	}
	return out
}
