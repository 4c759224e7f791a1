package pgsql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, name, email, password_hash, roles, enabled, created_at, updated_at, reservations`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Roles,
		&u.Enabled,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Reservations,
	)
	return u, err
}

const createUser = `INSERT INTO users (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type CreateUserParams struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	Enabled      bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	Reservations []byte
}

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) error {
	_, err := db.Exec(ctx, createUser,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.PasswordHash,
		arg.Roles,
		arg.Enabled,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.Reservations,
	)
	return err
}

const findUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) FindUserByID(ctx context.Context, db DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByID, id))
}

const findUserByIDForUpdate = findUserByID + ` FOR UPDATE`

func (q *Queries) FindUserByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByIDForUpdate, id))
}

const findUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) FindUserByEmail(ctx context.Context, db DBTX, email string) (User, error) {
	return scanUser(db.QueryRow(ctx, findUserByEmail, email))
}

const updateUser = `UPDATE users SET
    name = $2,
    email = $3,
    roles = $4,
    enabled = $5,
    updated_at = $6,
    reservations = $7
WHERE id = $1`

type UpdateUserParams struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Roles        []string
	Enabled      bool
	UpdatedAt    pgtype.Timestamptz
	Reservations []byte
}

func (q *Queries) UpdateUser(ctx context.Context, db DBTX, arg UpdateUserParams) (int64, error) {
	tag, err := db.Exec(ctx, updateUser,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Roles,
		arg.Enabled,
		arg.UpdatedAt,
		arg.Reservations,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listUsers = `SELECT ` + userColumns + ` FROM users
WHERE $1::boolean OR enabled
ORDER BY created_at, id
LIMIT $2 OFFSET $3`

type ListUsersParams struct {
	IncludeDisabled bool
	Limit           int32
	Offset          int32
}

func (q *Queries) ListUsers(ctx context.Context, db DBTX, arg ListUsersParams) ([]User, error) {
	rows, err := db.Query(ctx, listUsers, arg.IncludeDisabled, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

const countUsers = `SELECT count(*) FROM users WHERE $1::boolean OR enabled`

func (q *Queries) CountUsers(ctx context.Context, db DBTX, includeDisabled bool) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countUsers, includeDisabled).Scan(&n)
	return n, err
}

const findEnabledUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND enabled`

// FindEnabledUserByID treats a disabled user as missing.
func (q *Queries) FindEnabledUserByID(ctx context.Context, db DBTX, id uuid.UUID) (User, error) {
	return scanUser(db.QueryRow(ctx, findEnabledUserByID, id))
}
