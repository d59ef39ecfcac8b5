package sessionsrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/core/records"
)

// Column names of the session table, in column order.
const (
	ColumnID        = "id"
	ColumnUserID    = "user_id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// Session is one row of public.session.
type Session struct {
	ID        uuid.UUID  `db:"id" json:"id" validate:"required"`
	UserID    uuid.UUID  `db:"user_id" json:"user_id" validate:"required"`
	CreatedAt time.Time  `db:"created_at" json:"created_at" validate:"required"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty" validate:"omitempty,gtefield=CreatedAt"`
}

// Sessions maps Session onto the session table. Column order is part of the
// persisted contract: id, user_id, created_at, updated_at.
var Sessions = records.NewMapper("public", "session",
	records.NewField(records.Column{Name: ColumnID, Type: records.TypeUUID, PrimaryKey: true},
		func(s *Session) *uuid.UUID { return &s.ID }),
	records.NewField(records.Column{Name: ColumnUserID, Type: records.TypeUUID},
		func(s *Session) *uuid.UUID { return &s.UserID }),
	records.NewField(records.Column{Name: ColumnCreatedAt, Type: records.TypeTimestamp},
		func(s *Session) *time.Time { return &s.CreatedAt }),
	records.NewNullField(records.Column{Name: ColumnUpdatedAt, Type: records.TypeTimestamp},
		func(s *Session) **time.Time { return &s.UpdatedAt }),
)

// NewSession creates a detached, initialised session. updatedAt may be nil.
func NewSession(id, userID uuid.UUID, createdAt time.Time, updatedAt *time.Time) Session {
	s := Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: createdAt,
	}
	if updatedAt != nil {
		u := *updatedAt
		s.UpdatedAt = &u
	}
	return s
}

// LoadSession builds a session from the ordered tuple
// (id, user_id, created_at, updated_at).
func LoadSession(values ...any) (Session, error) {
	return Sessions.New(values...)
}

// Values returns the ordered tuple (id, user_id, created_at, updated_at).
// An absent updated_at is nil.
func (s Session) Values() []any {
	return Sessions.Values(&s)
}

// Get returns the value of the named column.
func (s Session) Get(column string) (any, error) {
	return Sessions.Get(&s, column)
}

// Set assigns the named column.
func (s *Session) Set(column string, value any) error {
	return Sessions.Set(s, column, value)
}

// Key returns the primary key.
func (s Session) Key() uuid.UUID {
	return s.ID
}

// LastActive is updated_at when present, created_at otherwise.
func (s Session) LastActive() time.Time {
	if s.UpdatedAt != nil {
		return *s.UpdatedAt
	}
	return s.CreatedAt
}

// Touched returns a copy with updated_at set to now, never earlier than
// created_at.
func (s Session) Touched(now time.Time) Session {
	if now.Before(s.CreatedAt) {
		now = s.CreatedAt
	}
	s.UpdatedAt = &now
	return s
}

// normalize puts timestamps in UTC at the microsecond precision PostgreSQL
// stores, so a stored session reads back equal to the one written.
func (s Session) normalize() Session {
	s.CreatedAt = s.CreatedAt.UTC().Truncate(time.Microsecond)
	if s.UpdatedAt != nil {
		u := s.UpdatedAt.UTC().Truncate(time.Microsecond)
		s.UpdatedAt = &u
	}
	return s
}
