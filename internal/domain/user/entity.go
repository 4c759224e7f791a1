package user

import (
	"slices"
	"time"

	"library-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrPasswordChangeNotAllowed = errs.New("password cannot be changed through a profile update")

type User struct {
	id           uuid.UUID
	name         string
	email        Email
	passwordHash string
	roles        Roles
	enabled      bool
	createdAt    time.Time
	updatedAt    time.Time
	reservations []ReservationEntry
}

// NewUser builds an enabled user. An empty role set becomes DefaultRoles.
func NewUser(name string, email Email, passwordHash string, roles Roles, now time.Time) (*User, error) {
	name, err := NewName(name)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		roles = DefaultRoles()
	}

	return &User{
		id:           uuid.New(),
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		roles:        roles,
		enabled:      true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(
	id uuid.UUID,
	name string,
	email Email,
	passwordHash string,
	roles Roles,
	enabled bool,
	createdAt, updatedAt time.Time,
	reservations []ReservationEntry,
) *User {
	return &User{
		id:           id,
		name:         name,
		email:        email,
		passwordHash: passwordHash,
		roles:        roles,
		enabled:      enabled,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		reservations: reservations,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Roles() Roles         { return slices.Clone(u.roles) }
func (u *User) IsEnabled() bool      { return u.enabled }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) Reservations() []ReservationEntry {
	return slices.Clone(u.reservations)
}

// Patch is a partial profile update. Nil fields are left untouched.
type Patch struct {
	Name     *string
	Email    *string
	Roles    []string
	Password *string
}

// Apply validates every field before mutating. Password is rejected here and
// must be stripped by the caller.
func (u *User) Apply(p Patch, now time.Time) error {
	if p.Password != nil {
		return ErrPasswordChangeNotAllowed
	}

	next := *u
	if p.Name != nil {
		name, err := NewName(*p.Name)
		if err != nil {
			return err
		}
		next.name = name
	}
	if p.Email != nil {
		email, err := NewEmail(*p.Email)
		if err != nil {
			return err
		}
		next.email = email
	}
	if p.Roles != nil {
		roles, err := NewRoles(p.Roles)
		if err != nil {
			return err
		}
		next.roles = roles
	}

	next.updatedAt = now
	*u = next
	return nil
}

func (u *User) Disable(now time.Time) {
	u.enabled = false
	u.updatedAt = now
}
