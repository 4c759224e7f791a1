package response

import (
	"time"

	"library-backend/internal/pkg/pagination"
	"library-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromUserView(v *queries.UserView) (UserResponse, error) {
	return copyAs[UserResponse](v)
}

type UserListResponse struct {
	Data []UserResponse  `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

func FromUserListPage(p *queries.UserListPage) (UserListResponse, error) {
	data := []UserResponse{}
	if len(p.Items) > 0 {
		var err error
		if data, err = copyAs[[]UserResponse](p.Items); err != nil {
			return UserListResponse{}, err
		}
	}
	return UserListResponse{Data: data, Meta: p.Meta}, nil
}

type BookRefResponse struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
}

type UserHistoryResponse struct {
	Book       BookRefResponse `json:"book"`
	ReservedAt time.Time       `json:"reservedAt"`
	ReturnedAt *time.Time      `json:"returnedAt"`
}

func FromUserHistory(entries []queries.UserHistoryEntry) []UserHistoryResponse {
	out := make([]UserHistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = UserHistoryResponse{
			Book: BookRefResponse{
				ID:     e.Book.ID,
				Title:  e.Book.Title,
				Author: e.Book.Author,
			},
			ReservedAt: e.ReservedAt,
			ReturnedAt: e.ReturnedAt,
		}
	}
	return out
}
