package request

import (
	"library-backend/internal/domain/auth"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *RegisterRequest) ToDomain() (auth.Registration, error) {
	return auth.NewRegistration(r.Name, r.Email, r.Password)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) ToDomain() (auth.Credentials, error) {
	return auth.NewCredentials(r.Email, r.Password)
}
