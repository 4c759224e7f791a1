// Package calendar parses calendar dates and computes local-day bounds.
package calendar

import (
	"strings"
	"time"

	"library-backend/internal/pkg/errs"
)

var ErrInvalidDate = errs.New("invalid date")

const DateLayout = "2006-01-02"

// ParseDate accepts a plain date, read as midnight in loc, or an RFC 3339
// timestamp.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.ParseInLocation(DateLayout, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// DayBounds returns the first and last millisecond of the calendar day that
// contains t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}
