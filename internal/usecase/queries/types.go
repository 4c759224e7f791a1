package queries

import (
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/pkg/pagination"

	"github.com/google/uuid"
)

const (
	DeletedUserName   = "Deleted user"
	DeletedBookTitle  = "Deleted book"
	DeletedBookAuthor = "N/A"
)

// BookListFilter is the resolved form of the listing query. Empty strings
// and nil pointers mean "no constraint".
type BookListFilter struct {
	IncludeDisabled bool
	Category        string
	Author          string
	Title           string
	Publisher       string
	PublishedFrom   *time.Time
	PublishedTo     *time.Time
	Availability    book.Availability
}

type BookListItem struct {
	ID    uuid.UUID
	Title string
}

type BookListPage struct {
	Items []BookListItem
	Meta  pagination.Meta
}

type BookView struct {
	ID          uuid.UUID
	Title       string
	Author      string
	Description string
	Category    string
	Publisher   string
	PublishedAt time.Time
	Stock       int
	Enabled     bool
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BookHistoryEntry struct {
	HolderName string
	ReservedAt time.Time
	ReturnedAt *time.Time
}

type UserView struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Roles     []string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserListPage struct {
	Items []UserView
	Meta  pagination.Meta
}

// UserCredentials is only handed to the login flow.
type UserCredentials struct {
	UserView
	PasswordHash string
}

type BookRef struct {
	ID     uuid.UUID
	Title  string
	Author string
}

type UserHistoryEntry struct {
	Book       BookRef
	ReservedAt time.Time
	ReturnedAt *time.Time
}
