package book

import (
	"slices"
	"strings"
	"time"

	"library-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

const DefaultCategory = "General"

var (
	ErrTitleRequired       = errs.New("title is required")
	ErrAuthorRequired      = errs.New("author is required")
	ErrPublisherRequired   = errs.New("publisher is required")
	ErrPublishedAtRequired = errs.New("publication date is required")
	ErrNegativeStock       = errs.New("stock cannot be negative")
	ErrAlreadyReserved     = errs.New("book already has an open reservation")
)

type Book struct {
	id           uuid.UUID
	title        string
	author       string
	description  string
	category     string
	publisher    string
	publishedAt  time.Time
	stock        int
	enabled      bool
	createdAt    time.Time
	updatedAt    time.Time
	reservations []ReservationEntry
}

type NewBookParams struct {
	Title       string
	Author      string
	Description string
	Category    string
	Publisher   string
	PublishedAt time.Time
	Stock       int
}

func NewBook(p NewBookParams, now time.Time) (*Book, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	author := strings.TrimSpace(p.Author)
	if author == "" {
		return nil, ErrAuthorRequired
	}
	publisher := strings.TrimSpace(p.Publisher)
	if publisher == "" {
		return nil, ErrPublisherRequired
	}
	if p.PublishedAt.IsZero() {
		return nil, ErrPublishedAtRequired
	}
	if p.Stock < 0 {
		return nil, ErrNegativeStock
	}

	category := strings.TrimSpace(p.Category)
	if category == "" {
		category = DefaultCategory
	}

	return &Book{
		id:          uuid.New(),
		title:       title,
		author:      author,
		description: p.Description,
		category:    category,
		publisher:   publisher,
		publishedAt: p.PublishedAt,
		stock:       p.Stock,
		enabled:     true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructBook(
	id uuid.UUID,
	title, author, description, category, publisher string,
	publishedAt time.Time,
	stock int,
	enabled bool,
	createdAt, updatedAt time.Time,
	reservations []ReservationEntry,
) *Book {
	return &Book{
		id:           id,
		title:        title,
		author:       author,
		description:  description,
		category:     category,
		publisher:    publisher,
		publishedAt:  publishedAt,
		stock:        stock,
		enabled:      enabled,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		reservations: reservations,
	}
}

func (b *Book) ID() uuid.UUID          { return b.id }
func (b *Book) Title() string          { return b.title }
func (b *Book) Author() string         { return b.author }
func (b *Book) Description() string    { return b.description }
func (b *Book) Category() string       { return b.category }
func (b *Book) Publisher() string      { return b.publisher }
func (b *Book) PublishedAt() time.Time { return b.publishedAt }
func (b *Book) Stock() int             { return b.stock }
func (b *Book) IsEnabled() bool        { return b.enabled }
func (b *Book) CreatedAt() time.Time   { return b.createdAt }
func (b *Book) UpdatedAt() time.Time   { return b.updatedAt }

// Reservations returns a copy of the history in chronological order.
func (b *Book) Reservations() []ReservationEntry {
	return slices.Clone(b.reservations)
}

func (b *Book) IsAvailable() bool {
	return IsAvailable(b.reservations)
}

// Reserve appends an open entry. With singleHolder set, a book that already
// has an open entry is rejected with ErrAlreadyReserved.
func (b *Book) Reserve(reservationID, holderID uuid.UUID, holderName string, at time.Time, singleHolder bool) (ReservationEntry, error) {
	if singleHolder && !b.IsAvailable() {
		return ReservationEntry{}, ErrAlreadyReserved
	}

	entry := ReservationEntry{
		ID:         &reservationID,
		HolderID:   &holderID,
		HolderName: &holderName,
		ReservedAt: at,
	}
	b.reservations = append(b.reservations, entry)
	b.updatedAt = at
	return entry, nil
}

// CloseFor closes the most recent open entry held by the given holder,
// matching by id or by name snapshot, and backfills whichever of the two the
// entry lacks. It reports false and changes nothing when no entry matches.
func (b *Book) CloseFor(holderID uuid.UUID, holderName string, at time.Time) (ReservationEntry, bool) {
	for i := len(b.reservations) - 1; i >= 0; i-- {
		e := &b.reservations[i]
		if !e.matches(holderID, holderName) {
			continue
		}

		returned := at
		e.ReturnedAt = &returned
		if e.HolderID == nil {
			id := holderID
			e.HolderID = &id
		}
		if e.HolderName == nil {
			name := holderName
			e.HolderName = &name
		}
		b.updatedAt = at
		return *e, true
	}
	return ReservationEntry{}, false
}

func (b *Book) Disable(now time.Time) {
	b.enabled = false
	b.updatedAt = now
}
