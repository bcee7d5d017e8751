package domain

import "fmt"

// SortDirection is the ordering applied to a paged listing.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection accepts exactly "ASC" or "DESC" (case-sensitive).
func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(s) {
	case SortAsc, SortDesc:
		return SortDirection(s), nil
	}
	return "", fmt.Errorf("%w: %q (expected ASC or DESC)", ErrInvalidSortDirection, s)
}

// PageRequest describes one page of a sorted listing. Page is zero-based.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Direction SortDirection
}

// Offset returns the number of rows to skip.
func (r PageRequest) Offset() int64 {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	return int64(r.Page) * int64(r.Size)
}

// Page is one slice of a sorted listing plus the totals needed to navigate it.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewPage computes TotalPages from total and req.Size.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	if content == nil {
		content = []T{}
	}
	return &Page[T]{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
