//go:build unit || e2e

package builder

import (
	"slices"
	"time"

	"library-backend/internal/domain/book"

	"github.com/google/uuid"
)

type BookBuilder struct {
	ID           uuid.UUID
	Title        string
	Author       string
	Description  string
	Category     string
	Publisher    string
	PublishedAt  time.Time
	Stock        int
	Enabled      bool
	CreatedAt    time.Time
	Reservations []book.ReservationEntry
}

func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		ID:          uuid.New(),
		Title:       "El Quijote",
		Author:      "Cervantes",
		Description: "",
		Category:    "Novel",
		Publisher:   "Juan de la Cuesta",
		PublishedAt: time.Date(1605, 1, 1, 0, 0, 0, 0, time.UTC),
		Stock:       1,
		Enabled:     true,
		CreatedAt:   time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookBuilder) With(mutate func(*BookBuilder)) *BookBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookBuilder) BuildDomain() (*book.Book, error) {
	return book.NewBook(book.NewBookParams{
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Category:    b.Category,
		Publisher:   b.Publisher,
		PublishedAt: b.PublishedAt,
		Stock:       b.Stock,
	}, b.CreatedAt)
}

// BuildReconstructed skips validation and keeps ID and history as set.
func (b *BookBuilder) BuildReconstructed() *book.Book {
	return book.ReconstructBook(
		b.ID, b.Title, b.Author, b.Description, b.Category, b.Publisher,
		b.PublishedAt, b.Stock, b.Enabled, b.CreatedAt, b.CreatedAt, slices.Clone(b.Reservations),
	)
}

// Fluent builder methods
func (b *BookBuilder) WithTitle(title string) *BookBuilder {
	b.Title = title
	return b
}

func (b *BookBuilder) WithAuthor(author string) *BookBuilder {
	b.Author = author
	return b
}

func (b *BookBuilder) WithCategory(category string) *BookBuilder {
	b.Category = category
	return b
}

func (b *BookBuilder) WithPublisher(publisher string) *BookBuilder {
	b.Publisher = publisher
	return b
}

func (b *BookBuilder) WithPublishedAt(at time.Time) *BookBuilder {
	b.PublishedAt = at
	return b
}

func (b *BookBuilder) WithStock(stock int) *BookBuilder {
	b.Stock = stock
	return b
}

func (b *BookBuilder) WithReservations(entries ...book.ReservationEntry) *BookBuilder {
	b.Reservations = entries
	return b
}

func (b *BookBuilder) AsDisabled() *BookBuilder {
	b.Enabled = false
	return b
}

// OpenEntry and ClosedEntry build history lines for fixtures.
func OpenEntry(holderID uuid.UUID, holderName string, reservedAt time.Time) book.ReservationEntry {
	return book.ReservationEntry{HolderID: &holderID, HolderName: &holderName, ReservedAt: reservedAt}
}

func ClosedEntry(holderID uuid.UUID, holderName string, reservedAt, returnedAt time.Time) book.ReservationEntry {
	e := OpenEntry(holderID, holderName, reservedAt)
	e.ReturnedAt = &returnedAt
	return e
}
