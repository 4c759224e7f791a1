package request

import (
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/pkg/calendar"
	"library-backend/internal/pkg/patch"
	"library-backend/internal/usecase/queries"
)

// CreateBookRequest accepts publishedAt as YYYY-MM-DD (catalog time zone) or
// RFC 3339.
type CreateBookRequest struct {
	Title       string  `json:"title" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	Description *string `json:"description"`
	Category    string  `json:"category"`
	Publisher   string  `json:"publisher" binding:"required"`
	PublishedAt string  `json:"publishedAt" binding:"required"`
	Stock       *int    `json:"stock" binding:"required"`
}

func (r *CreateBookRequest) ToDomain(loc *time.Location) (book.NewBookParams, error) {
	publishedAt, err := calendar.ParseDate(r.PublishedAt, loc)
	if err != nil {
		return book.NewBookParams{}, err
	}

	return book.NewBookParams{
		Title:       r.Title,
		Author:      r.Author,
		Description: patch.Coalesce(r.Description, ""),
		Category:    r.Category,
		Publisher:   r.Publisher,
		PublishedAt: publishedAt,
		Stock:       patch.Coalesce(r.Stock, 0),
	}, nil
}

type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Publisher   *string `json:"publisher"`
	PublishedAt *string `json:"publishedAt"`
	Stock       *int    `json:"stock"`
	Enabled     *bool   `json:"enabled"`
}

func (r *UpdateBookRequest) ToDomain(loc *time.Location) (book.Patch, error) {
	p := book.Patch{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Category:    r.Category,
		Publisher:   r.Publisher,
		Stock:       r.Stock,
		Enabled:     r.Enabled,
	}
	if r.PublishedAt != nil {
		publishedAt, err := calendar.ParseDate(*r.PublishedAt, loc)
		if err != nil {
			return book.Patch{}, err
		}
		p.PublishedAt = &publishedAt
	}
	return p, nil
}

// ListBooksQuery binds raw strings so that malformed values fall back to
// defaults instead of failing the request.
type ListBooksQuery struct {
	Page            string `form:"page"`
	PageSize        string `form:"pageSize"`
	IncludeDisabled string `form:"includeDisabled"`
	Category        string `form:"category"`
	Author          string `form:"author"`
	Title           string `form:"title"`
	Publisher       string `form:"publisher"`
	PublishedAt     string `form:"publishedAt"`
	Availability    string `form:"availability"`
}

func (q *ListBooksQuery) ToParams() queries.BookListParams {
	return queries.BookListParams{
		Page:            q.Page,
		PageSize:        q.PageSize,
		IncludeDisabled: q.IncludeDisabled,
		Category:        q.Category,
		Author:          q.Author,
		Title:           q.Title,
		Publisher:       q.Publisher,
		PublishedAt:     q.PublishedAt,
		Availability:    q.Availability,
	}
}
