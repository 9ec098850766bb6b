package models

import "math"

// Pagination describes one page of a listing. Pages is always
// ceil(Total/Limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination builds the pagination envelope for a page request.
func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// ListResponse is the listing envelope shared by every paginated endpoint.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}
