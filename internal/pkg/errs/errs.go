package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is reports whether err matches reference, including marks set by Mark.
func Is(err, reference error) bool {
	return cr.Is(err, reference)
}

// IsAny reports whether err matches any of the references.
func IsAny(err error, references ...error) bool {
	return cr.IsAny(err, references...)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return cr.As(err, target)
}

// Root returns the innermost cause, skipping wrap and mark layers.
func Root(err error) error {
	if err == nil {
		return nil
	}
	return cr.UnwrapAll(err)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
