package book

import (
	"time"

	"github.com/google/uuid"
)

// ReservationEntry is one line of a book's circulation history. An entry
// without ReturnedAt is open.
type ReservationEntry struct {
	ID         *uuid.UUID
	HolderID   *uuid.UUID
	HolderName *string
	ReservedAt time.Time
	ReturnedAt *time.Time
}

func (e ReservationEntry) IsOpen() bool {
	return e.ReturnedAt == nil
}

// matches reports whether the entry belongs to the given holder for the
// purpose of a return. Closed entries never match.
func (e ReservationEntry) matches(holderID uuid.UUID, holderName string) bool {
	if !e.IsOpen() {
		return false
	}
	if e.HolderID != nil && *e.HolderID == holderID {
		return true
	}
	return e.HolderName != nil && *e.HolderName == holderName
}

// IsAvailable is false iff some entry is open.
func IsAvailable(entries []ReservationEntry) bool {
	for _, e := range entries {
		if e.IsOpen() {
			return false
		}
	}
	return true
}

type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityReserved  Availability = "reserved"
)

// ParseAvailability accepts the two known values; anything else yields ok=false.
func ParseAvailability(s string) (Availability, bool) {
	switch a := Availability(s); a {
	case AvailabilityAvailable, AvailabilityReserved:
		return a, true
	default:
		return "", false
	}
}

func (a Availability) Matches(entries []ReservationEntry) bool {
	available := IsAvailable(entries)
	if a == AvailabilityReserved {
		return !available
	}
	return available
}
