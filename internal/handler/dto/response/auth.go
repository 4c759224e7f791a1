package response

import (
	"library-backend/internal/usecase/commands"
	"library-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

func FromLoginResult(r *commands.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     r.AccessToken,
		ExpiresIn: int64(r.ExpiresIn.Seconds()),
	}
}

type RegisterResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func FromRegisteredUser(v *queries.UserView) RegisterResponse {
	return RegisterResponse{ID: v.ID, Email: v.Email, Name: v.Name}
}

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}
