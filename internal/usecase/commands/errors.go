package commands

import (
	"library-backend/internal/domain/book"
	"library-backend/internal/domain/user"
	"library-backend/internal/infra"
	"library-backend/internal/pkg/errs"
)

var (
	ErrBookNotFound        = errs.New("book not found")
	ErrUserNotFound        = errs.New("user not found")
	ErrForbidden           = errs.New("operation not permitted")
	ErrInvalidInput        = errs.New("invalid input")
	ErrEmailTaken          = errs.New("email already registered")
	ErrBookAlreadyReserved = errs.New("book already reserved")
	// ErrReservationIncomplete reports that the book side of a reservation
	// was written but the user side was not.
	ErrReservationIncomplete = errs.New("reservation recorded on book only")
)

func mapBookLookupErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrBookNotFound)
	}
	return err
}

func mapUserLookupErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrUserNotFound)
	}
	return err
}

func mapUserWriteErr(err error) error {
	if infra.IsKind(err, infra.KindDuplicateKey) {
		return errs.Mark(err, ErrEmailTaken)
	}
	return mapUserLookupErr(err)
}

// markValidation tags domain validation failures so the handler reports them
// as bad requests.
func markValidation(err error) error {
	if errs.IsAny(err,
		book.ErrTitleRequired, book.ErrAuthorRequired, book.ErrPublisherRequired,
		book.ErrPublishedAtRequired, book.ErrNegativeStock,
		user.ErrInvalidEmail, user.ErrInvalidRole, user.ErrNameRequired, user.ErrPasswordTooWeak,
		user.ErrPasswordChangeNotAllowed,
	) {
		return errs.Mark(err, ErrInvalidInput)
	}
	return err
}
