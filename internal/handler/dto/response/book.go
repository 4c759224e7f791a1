package response

import (
	"time"

	"library-backend/internal/pkg/pagination"
	"library-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"publishedAt"`
	Stock       int       `json:"stock"`
	Enabled     bool      `json:"enabled"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromBookView(v *queries.BookView) (BookResponse, error) {
	return copyAs[BookResponse](v)
}

type BookListItemResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type BookListResponse struct {
	Data []BookListItemResponse `json:"data"`
	Meta pagination.Meta        `json:"meta"`
}

func FromBookListPage(p *queries.BookListPage) BookListResponse {
	data := make([]BookListItemResponse, len(p.Items))
	for i, item := range p.Items {
		data[i] = BookListItemResponse{ID: item.ID, Title: item.Title}
	}
	return BookListResponse{Data: data, Meta: p.Meta}
}

type BookHistoryResponse struct {
	HolderName string     `json:"holderName"`
	ReservedAt time.Time  `json:"reservedAt"`
	ReturnedAt *time.Time `json:"returnedAt"`
}

func FromBookHistory(entries []queries.BookHistoryEntry) ([]BookHistoryResponse, error) {
	if len(entries) == 0 {
		return []BookHistoryResponse{}, nil
	}
	return copyAs[[]BookHistoryResponse](entries)
}
