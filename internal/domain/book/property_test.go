//go:build unit

package book_test

import (
	"testing"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/tests/common/builder"

	"github.com/google/uuid"
	"pgregory.net/rapid"
)

var holders = []struct {
	id   uuid.UUID
	name string
}{
	{uuid.MustParse("00000000-0000-0000-0000-00000000000a"), "Ana"},
	{uuid.MustParse("00000000-0000-0000-0000-00000000000b"), "Berta"},
	{uuid.MustParse("00000000-0000-0000-0000-00000000000c"), "Carlos"},
}

func entryGen() *rapid.Generator[book.ReservationEntry] {
	return rapid.Custom(func(t *rapid.T) book.ReservationEntry {
		h := holders[rapid.IntRange(0, len(holders)-1).Draw(t, "holder")]
		reservedAt := base.Add(time.Duration(rapid.IntRange(0, 10_000).Draw(t, "minute")) * time.Minute)

		e := book.ReservationEntry{ReservedAt: reservedAt}
		if rapid.Bool().Draw(t, "hasID") {
			id := h.id
			e.HolderID = &id
		}
		if rapid.Bool().Draw(t, "hasName") {
			name := h.name
			e.HolderName = &name
		}
		if rapid.Bool().Draw(t, "closed") {
			returned := reservedAt.Add(time.Hour)
			e.ReturnedAt = &returned
		}
		return e
	})
}

func TestAvailabilityProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.SliceOfN(entryGen(), 0, 20).Draw(t, "entries")

		open := false
		for _, e := range entries {
			if e.ReturnedAt == nil {
				open = true
			}
		}
		if book.IsAvailable(entries) == open {
			t.Fatalf("IsAvailable=%v with open=%v", book.IsAvailable(entries), open)
		}
		if book.AvailabilityAvailable.Matches(entries) == book.AvailabilityReserved.Matches(entries) {
			t.Fatalf("available and reserved filters must partition the set")
		}
	})
}

func TestReserveMakesUnavailable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.SliceOfN(entryGen(), 0, 20).Draw(t, "entries")
		b := builder.NewBookBuilder().WithReservations(entries...).BuildReconstructed()

		h := holders[rapid.IntRange(0, len(holders)-1).Draw(t, "holder")]
		if _, err := b.Reserve(uuid.New(), h.id, h.name, base.Add(time.Hour*1000), false); err != nil {
			t.Fatalf("reserve: %v", err)
		}
		if b.IsAvailable() {
			t.Fatalf("book available right after reserve")
		}
	})
}

func TestCloseForPicksLatestOpenMatch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.SliceOfN(entryGen(), 0, 20).Draw(t, "entries")
		h := holders[rapid.IntRange(0, len(holders)-1).Draw(t, "holder")]
		b := builder.NewBookBuilder().WithReservations(entries...).BuildReconstructed()

		want := -1
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if e.ReturnedAt != nil {
				continue
			}
			if (e.HolderID != nil && *e.HolderID == h.id) || (e.HolderName != nil && *e.HolderName == h.name) {
				want = i
				break
			}
		}

		at := base.Add(time.Hour * 5000)
		_, ok := b.CloseFor(h.id, h.name, at)
		after := b.Reservations()

		if ok != (want >= 0) {
			t.Fatalf("CloseFor ok=%v, expected match index %d", ok, want)
		}
		for i := range entries {
			changed := (entries[i].ReturnedAt == nil) != (after[i].ReturnedAt == nil)
			if i == want {
				if !changed || !after[i].ReturnedAt.Equal(at) {
					t.Fatalf("entry %d should have been closed at %v", i, at)
				}
				continue
			}
			if changed {
				t.Fatalf("entry %d changed but was not the match", i)
			}
			if entries[i].ReturnedAt != nil && !entries[i].ReturnedAt.Equal(*after[i].ReturnedAt) {
				t.Fatalf("closed entry %d was re-stamped", i)
			}
		}
	})
}

func TestReserveThenReturnRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var entries []book.ReservationEntry
		for _, e := range rapid.SliceOfN(entryGen(), 0, 20).Draw(t, "entries") {
			if e.ReturnedAt != nil {
				entries = append(entries, e)
			}
		}
		b := builder.NewBookBuilder().WithReservations(entries...).BuildReconstructed()
		h := holders[rapid.IntRange(0, len(holders)-1).Draw(t, "holder")]

		reservationID := uuid.New()
		if _, err := b.Reserve(reservationID, h.id, h.name, base.Add(time.Hour*1000), false); err != nil {
			t.Fatalf("reserve: %v", err)
		}
		closed, ok := b.CloseFor(h.id, h.name, base.Add(time.Hour*1001))
		if !ok || closed.ID == nil || *closed.ID != reservationID {
			t.Fatalf("return did not close the reservation just opened")
		}
		if !b.IsAvailable() {
			t.Fatalf("book not available after reserve and return")
		}
	})
}
