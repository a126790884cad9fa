package service

import "sampleapp/internal/repository"

// DefaultPerPage is used when a service is built without a page size.
const DefaultPerPage = 30

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func newPagination(page, perPage int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{Page: page, PerPage: perPage, Total: total}
}

// TotalPages is the number of pages, at least 1.
func (p Pagination) TotalPages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages() }

// PrevPage is the previous page number.
func (p Pagination) PrevPage() int { return p.Page - 1 }

// NextPage is the next page number.
func (p Pagination) NextPage() int { return p.Page + 1 }

func pageOf(page, perPage int) repository.Page {
	return repository.NewPage(page, perPage)
}

func perPageOr(n int) int {
	if n <= 0 {
		return DefaultPerPage
	}
	return n
}
