package sessionsrepo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
)

// Order fields accepted by List. OrderByLastActive sorts on
// COALESCE(updated_at, created_at).
const (
	OrderByCreatedAt  = "created_at"
	OrderByLastActive = "last_active"
)

// OrderFields lists the allowed order fields.
var OrderFields = []string{OrderByCreatedAt, OrderByLastActive}

// DefaultOrderBy lists newest sessions first.
var DefaultOrderBy = fop.NewBy(OrderByCreatedAt, fop.DESC)

// SessionFilter holds the available fields a query can be filtered on.
// Nil fields are ignored.
type SessionFilter struct {
	ID            *uuid.UUID
	UserID        *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// SessionCursor is the decoded pagination cursor for session lists.
type SessionCursor = fop.Cursor[uuid.UUID, time.Time]

// OrderValue returns the value s is sorted on under orderBy.
func OrderValue(s Session, orderBy fop.By) time.Time {
	if orderBy.Field == OrderByLastActive {
		return s.LastActive()
	}
	return s.CreatedAt
}

// EncodeCursor returns the cursor that resumes a listing after s.
func EncodeCursor(s Session, orderBy fop.By) (string, error) {
	return SessionCursor{OrderValue: OrderValue(s, orderBy), PK: s.ID}.Encode()
}

// DecodeCursor parses a cursor produced by EncodeCursor. An empty token
// yields nil.
func DecodeCursor(token string) (*SessionCursor, error) {
	c, err := fop.DecodeCursor[uuid.UUID, time.Time](token)
	if err != nil {
		return nil, fmt.Errorf("session cursor: %w", err)
	}
	return c, nil
}
