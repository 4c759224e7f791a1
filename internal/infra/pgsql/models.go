package pgsql

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Book mirrors the books table. Reservations is the raw JSONB history.
type Book struct {
	ID           uuid.UUID
	Title        string
	Author       string
	Description  string
	Category     string
	Publisher    string
	PublishedAt  pgtype.Timestamptz
	Stock        int32
	Enabled      bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	Reservations []byte
}

type BookSummary struct {
	ID     uuid.UUID
	Title  string
	Author string
}

// User mirrors the users table. Reservations is the raw JSONB history.
type User struct {
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
