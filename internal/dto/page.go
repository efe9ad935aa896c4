package dto

import (
	"fmt"

	"github.com/yukikurage/project-task-api/internal/utils"
)

// Page is a length-aware paginator. Field names match the shape clients of
// the previous API already consume.
type Page[T any] struct {
	CurrentPage  int     `json:"current_page"`
	Data         []T     `json:"data"`
	FirstPageURL string  `json:"first_page_url"`
	From         *int    `json:"from"`
	LastPage     int     `json:"last_page"`
	LastPageURL  string  `json:"last_page_url"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           *int    `json:"to"`
	Total        int64   `json:"total"`
}

// NewPage builds the paginator for one page of items. path is the absolute
// URL of the listing without query string.
func NewPage[T any](items []T, params utils.PaginationParams, total int64, path string) Page[T] {
	if items == nil {
		items = []T{}
	}

	lastPage := params.LastPage(total)
	page := Page[T]{
		CurrentPage:  params.Page,
		Data:         items,
		FirstPageURL: pageURL(path, 1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(path, lastPage),
		Path:         path,
		PerPage:      params.PerPage,
		Total:        total,
	}

	if len(items) > 0 {
		from := params.Offset + 1
		to := params.Offset + len(items)
		page.From = &from
		page.To = &to
	}
	if params.Page < lastPage {
		next := pageURL(path, params.Page+1)
		page.NextPageURL = &next
	}
	if params.Page > 1 {
		prev := pageURL(path, params.Page-1)
		page.PrevPageURL = &prev
	}

	return page
}

func pageURL(path string, page int) string {
	return fmt.Sprintf("%s?page=%d", path, page)
}

// Map converts every element of a slice.
func Map[S, T any](items []S, convert func(S) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = convert(item)
	}
	return out
}
