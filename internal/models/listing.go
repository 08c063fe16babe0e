package models

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const DefaultPerPage = 10

var PerPageChoices = []int{10, 25, 50, 100}

// ListQuery is the raw search/sort/page request for a list view.
type ListQuery struct {
	Search    string        `json:"search_query"`
	SortField string        `json:"sort_field"`
	SortDir   SortDirection `json:"sort_dir"`
	Page      int           `json:"page"`
	PerPage   int           `json:"per_page"`
}

// ListQueryFromValues reads q, sort, dir, page and per_page. Unparsable
// numbers are treated as absent.
func ListQueryFromValues(v url.Values) ListQuery {
	q := ListQuery{
		Search:    v.Get("q"),
		SortField: v.Get("sort"),
		SortDir:   SortDirection(strings.ToLower(v.Get("dir"))),
		Page:      1,
		PerPage:   DefaultPerPage,
	}
	if page, err := strconv.Atoi(strings.TrimSpace(v.Get("page"))); err == nil {
		q.Page = page
	}
	if perPage, err := strconv.Atoi(strings.TrimSpace(v.Get("per_page"))); err == nil {
		q.PerPage = perPage
	}
	return q
}

// Offset is the row offset of q.Page.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

func NormalizePerPage(perPage int) int {
	if slices.Contains(PerPageChoices, perPage) {
		return perPage
	}
	return DefaultPerPage
}

// TotalPages is never less than 1 so that an empty list still has a first page.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// ClampPage moves page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

type Page[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	Number      int  `json:"page"`
	PerPage     int  `json:"per_page"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

func NewPage[T any](items []T, total, number, perPage int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := TotalPages(total, perPage)
	return &Page[T]{
		Items:       items,
		Total:       total,
		Number:      number,
		PerPage:     perPage,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}
