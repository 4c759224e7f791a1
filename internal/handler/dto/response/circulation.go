package response

import (
	"time"

	"library-backend/internal/usecase/commands"

	"github.com/google/uuid"
)

// ReservationResponse describes the entry a reserve or return acted on.
// Closed is false when a return found nothing to close.
type ReservationResponse struct {
	BookID        uuid.UUID  `json:"bookId"`
	UserID        uuid.UUID  `json:"userId"`
	ReservationID *uuid.UUID `json:"reservationId"`
	ReservedAt    *time.Time `json:"reservedAt"`
	ReturnedAt    *time.Time `json:"returnedAt"`
	Closed        bool       `json:"closed"`
}

func FromReservationRef(r *commands.ReservationRef) ReservationResponse {
	return ReservationResponse{
		BookID:        r.BookID,
		UserID:        r.UserID,
		ReservationID: r.ReservationID,
		ReservedAt:    r.ReservedAt,
		ReturnedAt:    r.ReturnedAt,
		Closed:        r.Closed,
	}
}
