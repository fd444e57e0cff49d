package repository

import "math"

// DefaultLimit is the page size used when a caller passes limit < 1.
const DefaultLimit = 10

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page is one page of rows plus its pagination block. Data is never nil.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NormalizePage coerces page and limit to positive values: page < 1 becomes
// 1 and limit < 1 becomes DefaultLimit. Limits are not capped.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// NewPagination computes TotalPages as ceil(total/limit). page and limit
// must already be normalized.
func NewPagination(total int64, page, limit int) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(pages),
	}
}

// Offset is the number of rows before the page. ok is false when that number
// does not fit in a BIGINT; no row can be on such a page.
func (p Pagination) Offset() (offset uint64, ok bool) {
	skip := uint64(p.Page - 1)
	if skip > 0 && uint64(p.Limit) > math.MaxInt64/skip {
		return 0, false
	}
	return skip * uint64(p.Limit), true
}
