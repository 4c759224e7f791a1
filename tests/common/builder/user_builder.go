//go:build unit || e2e

package builder

import (
	"slices"
	"time"

	"library-backend/internal/domain/user"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	Enabled      bool
	CreatedAt    time.Time
	Reservations []user.ReservationEntry
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:           uuid.New(),
		Name:         "Ana Lectora",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Roles:        []string{"USER"},
		Enabled:      true,
		CreatedAt:    time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	roles, err := user.NewRoles(u.Roles)
	if err != nil {
		return nil, err
	}

	return user.NewUser(u.Name, email, u.PasswordHash, roles, u.CreatedAt)
}

// BuildReconstructed skips validation and keeps ID and history as set.
func (u *UserBuilder) BuildReconstructed() *user.User {
	email, _ := user.NewEmail(u.Email)
	roles, _ := user.NewRoles(u.Roles)
	return user.ReconstructUser(
		u.ID, u.Name, email, u.PasswordHash, roles, u.Enabled, u.CreatedAt, u.CreatedAt, slices.Clone(u.Reservations),
	)
}

// Fluent builder methods
func (u *UserBuilder) WithName(name string) *UserBuilder {
	u.Name = name
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRoles(roles ...string) *UserBuilder {
	u.Roles = roles
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) WithReservations(entries ...user.ReservationEntry) *UserBuilder {
	u.Reservations = entries
	return u
}

func (u *UserBuilder) AsAdmin() *UserBuilder {
	u.Roles = []string{"ADMIN"}
	return u
}

func (u *UserBuilder) AsDisabled() *UserBuilder {
	u.Enabled = false
	return u
}
