package sessionsrepobridge

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
	"github.com/jrazmi/sessions/infrastructure/web"
	"github.com/jrazmi/sessions/sdk/validation"
)

// QueryParams are the raw list query parameters.
type QueryParams struct {
	Limit         string
	Cursor        string
	Order         string
	UserID        string
	CreatedAfter  string
	CreatedBefore string
}

func parseQueryParams(r *http.Request) QueryParams {
	q := r.URL.Query()
	return QueryParams{
		Limit:         q.Get("limit"),
		Cursor:        q.Get("cursor"),
		Order:         q.Get("order"),
		UserID:        q.Get("user_id"),
		CreatedAfter:  q.Get("created_after"),
		CreatedBefore: q.Get("created_before"),
	}
}

func parseFilter(qp QueryParams) (sessionsrepo.SessionFilter, error) {
	var filter sessionsrepo.SessionFilter

	if qp.UserID != "" {
		id, err := uuid.Parse(qp.UserID)
		if err != nil {
			return filter, fmt.Errorf("invalid user_id: %s", qp.UserID)
		}
		filter.UserID = &id
	}
	if qp.CreatedAfter != "" {
		t, err := validation.ParseFlexibleTime(qp.CreatedAfter)
		if err != nil {
			return filter, fmt.Errorf("invalid created_after: %s", qp.CreatedAfter)
		}
		filter.CreatedAfter = &t
	}
	if qp.CreatedBefore != "" {
		t, err := validation.ParseFlexibleTime(qp.CreatedBefore)
		if err != nil {
			return filter, fmt.Errorf("invalid created_before: %s", qp.CreatedBefore)
		}
		filter.CreatedBefore = &t
	}

	return filter, nil
}

// parsePage validates limit and cursor up front so a malformed cursor is a
// client error rather than a store failure.
func parsePage(qp QueryParams) (fop.PageStringCursor, error) {
	page, err := fop.ParsePageStringCursor(qp.Limit, qp.Cursor)
	if err != nil {
		return fop.PageStringCursor{}, err
	}
	if _, err := sessionsrepo.DecodeCursor(page.Cursor); err != nil {
		return fop.PageStringCursor{}, fmt.Errorf("invalid cursor")
	}
	return page, nil
}

func parseOrderBy(order string) (fop.By, error) {
	return fop.ParseOrder(sessionsrepo.OrderFields, order, sessionsrepo.DefaultOrderBy)
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := web.Param(r, key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return id, nil
}
