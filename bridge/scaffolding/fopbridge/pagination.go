// Package fopbridge provides support for query paging with unified response types.
package fopbridge

import (
	"encoding/json"
	"net/http"

	"github.com/jrazmi/sessions/core/scaffolding/fop"
)

// PaginatedResponse is a page of records with its page info.
type PaginatedResponse[T any] struct {
	Records  []T                      `json:"records"`
	PageInfo fop.PageInfoStringCursor `json:"pageInfo"`
}

// NewPaginatedResponse wraps records and the page info returned by a
// repository List call. A nil slice is rendered as [].
func NewPaginatedResponse[T any](records []T, info fop.PageInfoStringCursor) PaginatedResponse[T] {
	if records == nil {
		records = []T{}
	}
	return PaginatedResponse[T]{
		Records:  records,
		PageInfo: info,
	}
}

// Encode implements the encoder interface for the paginated response
func (p PaginatedResponse[T]) Encode() ([]byte, string, error) {
	data, err := json.Marshal(p)
	return data, "application/json", err
}

// ParsePage reads the limit and cursor query parameters.
func ParsePage(r *http.Request) (fop.PageStringCursor, error) {
	q := r.URL.Query()
	return fop.ParsePageStringCursor(q.Get("limit"), q.Get("cursor"))
}
