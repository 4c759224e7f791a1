package queries

import (
	"context"
	"strconv"
	"strings"
	"time"

	"library-backend/internal/domain/book"
	"library-backend/internal/infra"
	"library-backend/internal/pkg/calendar"
	"library-backend/internal/pkg/config"
	"library-backend/internal/pkg/errs"
	"library-backend/internal/pkg/pagination"

	"github.com/google/uuid"
)

var ErrBookNotFound = errs.New("book not found")

// BookListParams carries the raw listing query. Values that do not parse are
// ignored rather than rejected.
type BookListParams struct {
	Page            string
	PageSize        string
	IncludeDisabled string
	Category        string
	Author          string
	Title           string
	Publisher       string
	PublishedAt     string
	Availability    string
}

type BookQueries interface {
	List(ctx context.Context, params BookListParams) (*BookListPage, error)
	Get(ctx context.Context, id uuid.UUID) (*BookView, error)
	History(ctx context.Context, id uuid.UUID) ([]BookHistoryEntry, error)
}

type BookReadStore interface {
	List(ctx context.Context, f BookListFilter, page pagination.Request) ([]BookListItem, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	History(ctx context.Context, id uuid.UUID) ([]BookHistoryEntry, error)
}

type bookQueriesImpl struct {
	readStore       BookReadStore
	location        *time.Location
	defaultPageSize int
	maxPageSize     int
}

func NewBookQueries(readStore BookReadStore, cfg config.CatalogConfig) BookQueries {
	return &bookQueriesImpl{
		readStore:       readStore,
		location:        cfg.Location(),
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

func (q *bookQueriesImpl) List(ctx context.Context, params BookListParams) (*BookListPage, error) {
	page := pagination.Parse(params.Page, params.PageSize, q.defaultPageSize, q.maxPageSize)
	filter := ResolveBookFilter(params, q.location)

	items, total, err := q.readStore.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	return &BookListPage{
		Items: items,
		Meta:  pagination.NewMeta(page, total),
	}, nil
}

func (q *bookQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*BookView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookErr(err)
	}
	return view, nil
}

func (q *bookQueriesImpl) History(ctx context.Context, id uuid.UUID) ([]BookHistoryEntry, error) {
	entries, err := q.readStore.History(ctx, id)
	if err != nil {
		return nil, mapBookErr(err)
	}
	return entries, nil
}

// ResolveBookFilter turns raw query values into a filter. The publication
// date becomes the bounds of that calendar day in loc.
func ResolveBookFilter(p BookListParams, loc *time.Location) BookListFilter {
	f := BookListFilter{
		Category:  strings.TrimSpace(p.Category),
		Author:    strings.TrimSpace(p.Author),
		Title:     strings.TrimSpace(p.Title),
		Publisher: strings.TrimSpace(p.Publisher),
	}

	if include, err := strconv.ParseBool(strings.TrimSpace(p.IncludeDisabled)); err == nil {
		f.IncludeDisabled = include
	}

	if p.PublishedAt != "" {
		if day, err := calendar.ParseDate(p.PublishedAt, loc); err == nil {
			from, to := calendar.DayBounds(day, loc)
			f.PublishedFrom = &from
			f.PublishedTo = &to
		}
	}

	if a, ok := book.ParseAvailability(p.Availability); ok {
		f.Availability = a
	}

	return f
}

func mapBookErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrBookNotFound)
	}
	return err
}
