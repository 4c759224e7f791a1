package api

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"library-backend/internal/handler/httperr"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/usecase/commands"
	"library-backend/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errInvalidID = errs.New("invalid id")

// abortWithUsecaseError translates usecase sentinels into the HTTP taxonomy.
// Validation failures surface their innermost message; everything
// unrecognized is reported as an internal error.
func abortWithUsecaseError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrInvalidInput):
		httperr.AbortWithError(c, http.StatusBadRequest, err, errs.Root(err).Error())
	case errs.IsAny(err, commands.ErrForbidden, queries.ErrUserAccess):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden")
	case errs.IsAny(err, commands.ErrBookNotFound, queries.ErrBookNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Book not found")
	case errs.IsAny(err, commands.ErrUserNotFound, queries.ErrUserNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "User not found")
	case errs.Is(err, commands.ErrEmailTaken):
		httperr.AbortWithError(c, http.StatusConflict, err, "Email already registered")
	case errs.Is(err, commands.ErrBookAlreadyReserved):
		httperr.AbortWithError(c, http.StatusConflict, err, "Book is already reserved")
	case errs.Is(err, commands.ErrInvalidCredentials):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid email or password")
	case errs.Is(err, commands.ErrTooManyAttempts):
		httperr.AbortWithError(c, http.StatusTooManyRequests, err, "Too many failed login attempts")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

// abortWithBadRequest is used for DTO conversion failures, whose messages
// are written for clients.
func abortWithBadRequest(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, errs.Root(err).Error())
}

// abortWithBindError never echoes decoder or validator text.
func abortWithBindError(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, err, bindErrorMessage(err))
}

func bindErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errs.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, lowerFirst(fe.Field()))
		}
		return "Missing or invalid fields: " + strings.Join(fields, ", ")
	}
	return "Malformed request"
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
