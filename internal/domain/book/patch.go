package book

import (
	"strings"
	"time"
)

type Field string

const (
	FieldTitle       Field = "title"
	FieldAuthor      Field = "author"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldPublisher   Field = "publisher"
	FieldPublishedAt Field = "publishedAt"
	FieldStock       Field = "stock"
	FieldEnabled     Field = "enabled"
)

// IsInformational reports whether changing the field alters the catalog
// description of the book rather than its operational state.
func (f Field) IsInformational() bool {
	switch f {
	case FieldTitle, FieldAuthor, FieldDescription, FieldCategory, FieldPublisher, FieldPublishedAt:
		return true
	default:
		return false
	}
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Author      *string
	Description *string
	Category    *string
	Publisher   *string
	PublishedAt *time.Time
	Stock       *int
	Enabled     *bool
}

func (p Patch) Fields() []Field {
	var fields []Field
	add := func(set bool, f Field) {
		if set {
			fields = append(fields, f)
		}
	}
	add(p.Title != nil, FieldTitle)
	add(p.Author != nil, FieldAuthor)
	add(p.Description != nil, FieldDescription)
	add(p.Category != nil, FieldCategory)
	add(p.Publisher != nil, FieldPublisher)
	add(p.PublishedAt != nil, FieldPublishedAt)
	add(p.Stock != nil, FieldStock)
	add(p.Enabled != nil, FieldEnabled)
	return fields
}

func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Apply validates the patch as a whole and only mutates the book when every
// field is acceptable.
func (b *Book) Apply(p Patch, now time.Time) error {
	next := *b

	if p.Title != nil {
		if next.title = strings.TrimSpace(*p.Title); next.title == "" {
			return ErrTitleRequired
		}
	}
	if p.Author != nil {
		if next.author = strings.TrimSpace(*p.Author); next.author == "" {
			return ErrAuthorRequired
		}
	}
	if p.Publisher != nil {
		if next.publisher = strings.TrimSpace(*p.Publisher); next.publisher == "" {
			return ErrPublisherRequired
		}
	}
	if p.PublishedAt != nil {
		if p.PublishedAt.IsZero() {
			return ErrPublishedAtRequired
		}
		next.publishedAt = *p.PublishedAt
	}
	if p.Stock != nil {
		if *p.Stock < 0 {
			return ErrNegativeStock
		}
		next.stock = *p.Stock
	}
	if p.Description != nil {
		next.description = *p.Description
	}
	if p.Category != nil {
		if next.category = strings.TrimSpace(*p.Category); next.category == "" {
			next.category = DefaultCategory
		}
	}
	if p.Enabled != nil {
		next.enabled = *p.Enabled
	}

	next.updatedAt = now
	*b = next
	return nil
}
