package converter

import (
	"encoding/json"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"

	"github.com/google/uuid"
)

// BookEntryDoc is the JSONB shape of one book-side history entry. The
// availability filter in SQL relies on returned_at being absent or null for
// open entries.
type BookEntryDoc struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	HolderID   *uuid.UUID `json:"holder_id,omitempty"`
	HolderName *string    `json:"holder_name,omitempty"`
	ReservedAt time.Time  `json:"reserved_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

// UserEntryDoc is the JSONB shape of one user-side history entry.
type UserEntryDoc struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	BookID     uuid.UUID  `json:"book_id"`
	ReservedAt time.Time  `json:"reserved_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

func DecodeBookHistory(raw []byte) ([]BookEntryDoc, error) {
	var docs []BookEntryDoc
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func DecodeUserHistory(raw []byte) ([]UserEntryDoc, error) {
	var docs []UserEntryDoc
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func BookEntriesToDomain(docs []BookEntryDoc) []book.ReservationEntry {
	entries := make([]book.ReservationEntry, len(docs))
	for i, d := range docs {
		entries[i] = book.ReservationEntry{
			ID:         d.ID,
			HolderID:   d.HolderID,
			HolderName: d.HolderName,
			ReservedAt: d.ReservedAt,
			ReturnedAt: d.ReturnedAt,
		}
	}
	return entries
}

func UserEntriesToDomain(docs []UserEntryDoc) []user.ReservationEntry {
	entries := make([]user.ReservationEntry, len(docs))
	for i, d := range docs {
		entries[i] = user.ReservationEntry{
			ID:         d.ID,
			BookID:     d.BookID,
			ReservedAt: d.ReservedAt,
			ReturnedAt: d.ReturnedAt,
		}
	}
	return entries
}

// EncodeBookHistory always yields a JSON array, never null.
func EncodeBookHistory(entries []book.ReservationEntry) ([]byte, error) {
	docs := make([]BookEntryDoc, len(entries))
	for i, e := range entries {
		docs[i] = BookEntryDoc{
			ID:         e.ID,
			HolderID:   e.HolderID,
			HolderName: e.HolderName,
			ReservedAt: e.ReservedAt.UTC(),
			ReturnedAt: utcPtr(e.ReturnedAt),
		}
	}
	return json.Marshal(docs)
}

func EncodeUserHistory(entries []user.ReservationEntry) ([]byte, error) {
	docs := make([]UserEntryDoc, len(entries))
	for i, e := range entries {
		docs[i] = UserEntryDoc{
			ID:         e.ID,
			BookID:     e.BookID,
			ReservedAt: e.ReservedAt.UTC(),
			ReturnedAt: utcPtr(e.ReturnedAt),
		}
	}
	return json.Marshal(docs)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
