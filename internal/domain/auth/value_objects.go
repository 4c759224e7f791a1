package auth

import (
	"library-backend/internal/domain/user"
	"library-backend/internal/pkg/errs"
)

var (
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrPasswordRequired   = errs.New("password is required")
)

// Credentials is a login attempt. The password strength rule only applies at
// registration, so any non-empty password is accepted here.
type Credentials struct {
	email    user.Email
	password string
}

func NewCredentials(emailStr, passwordStr string) (Credentials, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Credentials{}, err
	}
	if passwordStr == "" {
		return Credentials{}, ErrPasswordRequired
	}

	return Credentials{
		email:    email,
		password: passwordStr,
	}, nil
}

func (c Credentials) Email() user.Email {
	return c.email
}

func (c Credentials) Password() string {
	return c.password
}

// Registration is a self-service signup request.
type Registration struct {
	name     string
	email    user.Email
	password user.Password
}

func NewRegistration(name, emailStr, passwordStr string) (Registration, error) {
	name, err := user.NewName(name)
	if err != nil {
		return Registration{}, err
	}
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Registration{}, err
	}
	password, err := user.NewPassword(passwordStr)
	if err != nil {
		return Registration{}, err
	}
	return Registration{name: name, email: email, password: password}, nil
}

func (r Registration) Name() string            { return r.name }
func (r Registration) Email() user.Email       { return r.email }
func (r Registration) Password() user.Password { return r.password }
