package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPageSize    = 10
	DefaultMaxPageSize = 100
)

// Request is a clamped page request. Page is always >= 1 and PageSize is
// within [1, maxSize].
type Request struct {
	Page     int
	PageSize int
}

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func New(page, pageSize int) Request {
	return NewBounded(page, pageSize, DefaultMaxPageSize)
}

// NewBounded clamps pageSize to maxSize. A maxSize below 1 means
// DefaultMaxPageSize.
func NewBounded(page, pageSize, maxSize int) Request {
	if maxSize < 1 {
		maxSize = DefaultMaxPageSize
	}
	return Request{Page: max(1, page), PageSize: min(max(1, pageSize), maxSize)}
}

// Parse reads raw query values. Missing or non-numeric input falls back to
// page 1 and defaultSize; numeric input below 1 is clamped to 1 and sizes
// above maxSize are clamped to maxSize.
func Parse(rawPage, rawSize string, defaultSize, maxSize int) Request {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	return NewBounded(parseInt(rawPage, 1), parseInt(rawSize, defaultSize), maxSize)
}

func parseInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// Offset saturates at math.MaxInt, which yields an empty page.
func (r Request) Offset() int {
	page, size := max(1, r.Page), max(1, r.PageSize)
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

func (r Request) Limit() int {
	return r.PageSize
}

func TotalPages(total int64, pageSize int) int64 {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	size := int64(pageSize)
	return (total + size - 1) / size
}

func NewMeta(r Request, total int64) Meta {
	return Meta{
		Page:       r.Page,
		PerPage:    r.PageSize,
		Total:      total,
		TotalPages: TotalPages(total, r.PageSize),
	}
}
