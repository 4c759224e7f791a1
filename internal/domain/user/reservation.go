package user

import (
	"time"

	"github.com/google/uuid"
)

// ReservationEntry mirrors a book-side entry on the holder's record.
type ReservationEntry struct {
	ID         *uuid.UUID
	BookID     uuid.UUID
	ReservedAt time.Time
	ReturnedAt *time.Time
}

func (e ReservationEntry) IsOpen() bool {
	return e.ReturnedAt == nil
}

func (u *User) Reserve(reservationID, bookID uuid.UUID, at time.Time) ReservationEntry {
	entry := ReservationEntry{
		ID:         &reservationID,
		BookID:     bookID,
		ReservedAt: at,
	}
	u.reservations = append(u.reservations, entry)
	u.updatedAt = at
	return entry
}

// CloseFor closes the most recent open entry for the book. It reports false
// and changes nothing when the user holds no open entry for it.
func (u *User) CloseFor(bookID uuid.UUID, at time.Time) (ReservationEntry, bool) {
	for i := len(u.reservations) - 1; i >= 0; i-- {
		e := &u.reservations[i]
		if e.BookID != bookID || !e.IsOpen() {
			continue
		}
		returned := at
		e.ReturnedAt = &returned
		u.updatedAt = at
		return *e, true
	}
	return ReservationEntry{}, false
}
