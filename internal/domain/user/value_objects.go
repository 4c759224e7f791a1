package user

import (
	"regexp"
	"strings"

	"library-backend/internal/pkg/errs"
)

var (
	ErrInvalidEmail    = errs.New("invalid email format")
	ErrInvalidRole     = errs.New("invalid role")
	ErrNameRequired    = errs.New("name is required")
	ErrPasswordTooWeak = errs.New("password must be at least 8 characters long")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is stored lowercased so uniqueness is case-insensitive.
type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

type Password struct {
	value string
}

func NewPassword(s string) (Password, error) {
	if len(s) < 8 {
		return Password{}, ErrPasswordTooWeak
	}
	return Password{value: s}, nil
}

func (p Password) Value() string {
	return p.value
}

func NewName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNameRequired
	}
	return s, nil
}
