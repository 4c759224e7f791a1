package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"
	"library-backend/internal/pkg/clock"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/usecase/queries"
	"library-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("library-backend/usecase")

// ReservationRef identifies the entry a reserve or return acted on.
// ReservationID is nil for legacy entries recorded without one, and for a
// return that found nothing to close.
type ReservationRef struct {
	BookID        uuid.UUID
	UserID        uuid.UUID
	ReservationID *uuid.UUID
	ReservedAt    *time.Time
	ReturnedAt    *time.Time
	Closed        bool
}

type CirculationEvent struct {
	EventID       uuid.UUID  `json:"event_id"`
	Type          string     `json:"type"`
	BookID        uuid.UUID  `json:"book_id"`
	UserID        uuid.UUID  `json:"user_id"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

type CirculationCommands interface {
	Reserve(ctx context.Context, bookID, userID uuid.UUID) (*ReservationRef, error)
	Return(ctx context.Context, bookID, userID uuid.UUID) (*ReservationRef, error)
}

type circulationCommandsImpl struct {
	uow          shared.UnitOfWork
	users        queries.UserReadStore
	publisher    EventPublisher
	clock        clock.Clock
	logger       *slog.Logger
	singleHolder bool
}

func NewCirculationCommands(
	uow shared.UnitOfWork,
	users queries.UserReadStore,
	publisher EventPublisher,
	clock clock.Clock,
	cfg config.CatalogConfig,
	logger *slog.Logger,
) CirculationCommands {
	return &circulationCommandsImpl{
		uow:          uow,
		users:        users,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
		singleHolder: cfg.SingleHolder,
	}
}

// Reserve records the reservation on the book first and then on the user,
// each in its own transaction. A failure after the book write is reported as
// ErrReservationIncomplete and the book entry stays in place.
func (c *circulationCommandsImpl) Reserve(ctx context.Context, bookID, userID uuid.UUID) (_ *ReservationRef, err error) {
	ctx, span := tracer.Start(ctx, "circulation.reserve", trace.WithAttributes(
		attribute.String("book.id", bookID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer func() { endSpan(span, err) }()

	holder, err := c.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapUserLookupErr(err)
	}

	now := c.clock.Now().UTC()
	reservationID := uuid.New()

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return mapBookLookupErr(err)
		}
		if !b.IsEnabled() {
			return ErrBookNotFound
		}
		if _, err := b.Reserve(reservationID, holder.ID, holder.Name, now, c.singleHolder); err != nil {
			if errs.Is(err, book.ErrAlreadyReserved) {
				return errs.Mark(err, ErrBookAlreadyReserved)
			}
			return err
		}
		return tx.Books().Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByIDForUpdate(ctx, userID)
		if err != nil {
			return mapUserLookupErr(err)
		}
		u.Reserve(reservationID, bookID, now)
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "reservation recorded on book but not on user",
			slog.String("book_id", bookID.String()),
			slog.String("user_id", userID.String()),
			slog.String("reservation_id", reservationID.String()),
			slog.String("error", err.Error()),
		)
		return nil, errs.Mark(err, ErrReservationIncomplete)
	}

	span.SetAttributes(attribute.String("reservation.id", reservationID.String()))
	c.publish(ctx, EventBookReserved, bookID, userID, &reservationID, now)

	return &ReservationRef{
		BookID:        bookID,
		UserID:        userID,
		ReservationID: &reservationID,
		ReservedAt:    &now,
	}, nil
}

// Return closes the caller's latest open entry on each side independently. A
// side without a matching open entry is left as is, so repeating a return is
// harmless.
func (c *circulationCommandsImpl) Return(ctx context.Context, bookID, userID uuid.UUID) (_ *ReservationRef, err error) {
	ctx, span := tracer.Start(ctx, "circulation.return", trace.WithAttributes(
		attribute.String("book.id", bookID.String()),
		attribute.String("user.id", userID.String()),
	))
	defer func() { endSpan(span, err) }()

	holder, err := c.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapUserLookupErr(err)
	}

	now := c.clock.Now().UTC()

	var (
		bookEntry  book.ReservationEntry
		bookClosed bool
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return mapBookLookupErr(err)
		}
		if !b.IsEnabled() {
			return ErrBookNotFound
		}
		bookEntry, bookClosed = b.CloseFor(holder.ID, holder.Name, now)
		return tx.Books().Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	var (
		userEntry  user.ReservationEntry
		userClosed bool
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		u, err := tx.Users().FindByIDForUpdate(ctx, userID)
		if err != nil {
			return mapUserLookupErr(err)
		}
		userEntry, userClosed = u.CloseFor(bookID, now)
		return tx.Users().Save(ctx, u)
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "return recorded on book but not on user",
			slog.String("book_id", bookID.String()),
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil, errs.Mark(err, ErrReservationIncomplete)
	}

	ref := &ReservationRef{
		BookID:     bookID,
		UserID:     userID,
		ReturnedAt: &now,
		Closed:     bookClosed || userClosed,
	}
	switch {
	case bookClosed:
		ref.ReservationID = bookEntry.ID
		ref.ReservedAt = &bookEntry.ReservedAt
	case userClosed:
		ref.ReservationID = userEntry.ID
		ref.ReservedAt = &userEntry.ReservedAt
	}

	span.SetAttributes(attribute.Bool("reservation.closed", ref.Closed))
	if ref.Closed {
		c.publish(ctx, EventBookReturned, bookID, userID, ref.ReservationID, now)
	}
	return ref, nil
}

func (c *circulationCommandsImpl) publish(ctx context.Context, eventType string, bookID, userID uuid.UUID, reservationID *uuid.UUID, at time.Time) {
	payload, err := json.Marshal(CirculationEvent{
		EventID:       uuid.New(),
		Type:          eventType,
		BookID:        bookID,
		UserID:        userID,
		ReservationID: reservationID,
		OccurredAt:    at,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode circulation event", slog.String("error", err.Error()))
		return
	}

	if err := c.publisher.Publish(ctx, eventType, payload, bookID.String()); err != nil {
		c.logger.WarnContext(ctx, "failed to publish circulation event",
			slog.String("event_type", eventType),
			slog.String("book_id", bookID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
