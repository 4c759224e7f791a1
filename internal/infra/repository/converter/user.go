package converter

import (
	"library-backend/internal/domain/user"
	"library-backend/internal/infra/pgsql"
	"library-backend/internal/pkg/pgconv"
)

// UserToDomain trusts stored email and roles; they were validated on write.
func UserToDomain(row pgsql.User) (*user.User, error) {
	docs, err := DecodeUserHistory(row.Reservations)
	if err != nil {
		return nil, err
	}

	email, err := user.NewEmail(row.Email)
	if err != nil {
		return nil, err
	}

	roles, err := user.NewRoles(row.Roles)
	if err != nil {
		return nil, err
	}

	return user.ReconstructUser(
		row.ID,
		row.Name,
		email,
		row.PasswordHash,
		roles,
		row.Enabled,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
		UserEntriesToDomain(docs),
	), nil
}

func UserToCreateParams(u *user.User) (pgsql.CreateUserParams, error) {
	history, err := EncodeUserHistory(u.Reservations())
	if err != nil {
		return pgsql.CreateUserParams{}, err
	}

	return pgsql.CreateUserParams{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Roles:        u.Roles().Strings(),
		Enabled:      u.IsEnabled(),
		CreatedAt:    pgconv.TimeToPgtype(u.CreatedAt()),
		UpdatedAt:    pgconv.TimeToPgtype(u.UpdatedAt()),
		Reservations: history,
	}, nil
}

func UserToUpdateParams(u *user.User) (pgsql.UpdateUserParams, error) {
	history, err := EncodeUserHistory(u.Reservations())
	if err != nil {
		return pgsql.UpdateUserParams{}, err
	}

	return pgsql.UpdateUserParams{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email().Value(),
		Roles:        u.Roles().Strings(),
		Enabled:      u.IsEnabled(),
		UpdatedAt:    pgconv.TimeToPgtype(u.UpdatedAt()),
		Reservations: history,
	}, nil
}
