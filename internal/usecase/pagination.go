package usecase

import (
	"github.com/hszk-dev/gotube/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest selects one page of a composed listing.
type PageRequest struct {
	Page  int
	Limit int
}

// Page is one slice of a composed, sorted listing.
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Paginate slices items, which must already be filtered, composed and sorted.
// limit is clamped to MaxLimit.
func Paginate[T any](items []T, req PageRequest) (*Page[T], error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	limit := min(req.Limit, MaxLimit)

	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := total
	if req.Page <= totalPages {
		start = (req.Page - 1) * limit
	}
	end := min(start+limit, total)

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return &Page[T]{
		Items:       pageItems,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: req.Page,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1 && total > 0,
	}, nil
}

func (r PageRequest) validate() error {
	if r.Page < 1 {
		return apperr.Validation("page must be at least 1", nil)
	}
	if r.Limit < 1 {
		return apperr.Validation("limit must be at least 1", nil)
	}
	return nil
}
