package model

import "math"

// PaginationMeta describes where a page sits in the full result set.
// Limit is always at least 1.
type PaginationMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page is one page of a list fetched from the API.
type Page[T any] struct {
	Items []T
	Meta  PaginationMeta
}

// ListOptions selects a page of a list.
type ListOptions struct {
	Page  int
	Limit int
}

// Offset returns the zero-based index of the first item on the page,
// saturating at math.MaxInt.
func (o ListOptions) Offset() int {
	if o.Page < 1 || o.Limit < 1 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt
	}
	return (o.Page - 1) * o.Limit
}
