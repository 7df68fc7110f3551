// Package listview turns one in-memory collection snapshot into a
// display-ready page of rows under combined free-text search, equality
// filters, sorting and fixed-size pagination. Every list screen shares this
// pipeline instead of reimplementing it per view.
package listview

import (
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Params are the user-controlled view parameters. Page is 1-based. A filter
// value of "", "All" or "all" means no constraint on that field.
type Params struct {
	Query      string
	Filters    map[string]string
	SortKey    string
	Descending bool
	Page       int
	PageSize   int
}

// FromContext extracts view parameters from the request query string.
func FromContext(c echo.Context) Params {
	p := Params{
		Query:    c.QueryParam("q"),
		SortKey:  c.QueryParam("sort"),
		Filters:  map[string]string{},
		PageSize: DefaultPageSize,
	}
	if c.QueryParam("order") == "desc" {
		p.Descending = true
	}
	if page, _ := strconv.Atoi(c.QueryParam("page")); page > 0 {
		p.Page = page
	} else {
		p.Page = 1
	}
	if size, _ := strconv.Atoi(c.QueryParam("page_size")); size > 0 {
		p.PageSize = size
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// View configures the pipeline for one record type: which fields the
// free-text query searches, which fields the equality filters resolve, and
// the comparators available to SortKey.
type View[T any] struct {
	SearchFields []func(T) string
	FilterFields map[string]func(T) string
	Comparators  map[string]func(a, b T) int
}

// Page is one display-ready slice of the filtered record set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
}

// Apply runs the full filter, sort and paginate pipeline. It is a pure
// function of (records, view, params): identical inputs yield identical
// output, and the input slice is never mutated.
func Apply[T any](records []T, view View[T], p Params) Page[T] {
	filtered := make([]T, 0, len(records))
	for _, rec := range records {
		if matchesQuery(rec, view.SearchFields, p.Query) && matchesFilters(rec, view.FilterFields, p.Filters) {
			filtered = append(filtered, rec)
		}
	}

	if cmp, ok := view.Comparators[p.SortKey]; ok {
		sort.SliceStable(filtered, func(i, j int) bool {
			c := cmp(filtered[i], filtered[j])
			if p.Descending {
				return c > 0
			}
			return c < 0
		})
	}

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	page := p.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      filtered[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}

// matchesQuery reports whether any configured search field contains the
// query as a case-insensitive substring. An empty query matches everything.
func matchesQuery[T any](rec T, fields []func(T) string, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(rec)), q) {
			return true
		}
	}
	return false
}

// matchesFilters requires every active filter to match exactly.
func matchesFilters[T any](rec T, fields map[string]func(T) string, filters map[string]string) bool {
	for name, want := range filters {
		if !filterActive(want) {
			continue
		}
		field, ok := fields[name]
		if !ok {
			continue
		}
		if field(rec) != want {
			return false
		}
	}
	return true
}

func filterActive(value string) bool {
	return value != "" && value != "All" && value != "all"
}
