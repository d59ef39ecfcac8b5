package fop

import (
	"fmt"
	"strconv"
)

// Page size bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageStringCursor represents the requested items per page and the opaque
// cursor of the last item already seen.
type PageStringCursor struct {
	Limit  int
	Cursor string
}

// PageInfoStringCursor returns pagination data. Every slice query should return page info.
type PageInfoStringCursor struct {
	HasNext    bool   `json:"hasNext"`
	Limit      int    `json:"limit,omitempty"`
	NextCursor string `json:"nextCursor,omitempty"`
	PageTotal  int    `json:"pageTotal"`
}

// ParsePageStringCursor validates raw limit/cursor query values.
func ParsePageStringCursor(pageLimit string, cursor string) (PageStringCursor, error) {
	limit := DefaultLimit

	if pageLimit != "" {
		var err error
		limit, err = strconv.Atoi(pageLimit)
		if err != nil {
			return PageStringCursor{}, fmt.Errorf("page limit conversion: %w", err)
		}
	}

	if limit <= 0 {
		return PageStringCursor{}, fmt.Errorf("rows value too small, must be larger than 0")
	}

	if limit > MaxLimit {
		return PageStringCursor{}, fmt.Errorf("rows value too large, must be at most %d", MaxLimit)
	}

	return PageStringCursor{
		Limit:  limit,
		Cursor: cursor,
	}, nil
}

// NewPageInfo builds page info for a result fetched with limit+1 rows: the
// extra row only signals that another page exists. The returned slice is
// trimmed to limit and next is called on its last element.
func NewPageInfo[T any](rows []T, page PageStringCursor, next func(last T) (string, error)) ([]T, PageInfoStringCursor, error) {
	info := PageInfoStringCursor{Limit: page.Limit}

	if len(rows) > page.Limit {
		rows = rows[:page.Limit]
		info.HasNext = true
	}
	info.PageTotal = len(rows)

	if info.HasNext && len(rows) > 0 {
		cursor, err := next(rows[len(rows)-1])
		if err != nil {
			return nil, PageInfoStringCursor{}, fmt.Errorf("encode next cursor: %w", err)
		}
		info.NextCursor = cursor
	}

	return rows, info, nil
}
