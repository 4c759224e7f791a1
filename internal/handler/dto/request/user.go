package request

import (
	"strconv"

	"library-backend/internal/domain/auth"
	"library-backend/internal/domain/user"
)

type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles"`
}

func (r *CreateUserRequest) ToDomain() (auth.Registration, user.Roles, error) {
	reg, err := auth.NewRegistration(r.Name, r.Email, r.Password)
	if err != nil {
		return auth.Registration{}, nil, err
	}
	roles, err := user.NewRoles(r.Roles)
	if err != nil {
		return auth.Registration{}, nil, err
	}
	return reg, roles, nil
}

// UpdateUserRequest accepts password only so it can be discarded explicitly.
type UpdateUserRequest struct {
	Name     *string  `json:"name"`
	Email    *string  `json:"email"`
	Roles    []string `json:"roles"`
	Password *string  `json:"password"`
}

func (r *UpdateUserRequest) ToDomain() user.Patch {
	return user.Patch{
		Name:     r.Name,
		Email:    r.Email,
		Roles:    r.Roles,
		Password: r.Password,
	}
}

type ListUsersQuery struct {
	Page            string `form:"page"`
	PageSize        string `form:"pageSize"`
	IncludeDisabled string `form:"includeDisabled"`
}

func (q *ListUsersQuery) IncludesDisabled() bool {
	include, err := strconv.ParseBool(q.IncludeDisabled)
	return err == nil && include
}
