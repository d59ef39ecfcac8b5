// Package sessionsrepo provides the session record and its repository.
//
// A session is issued when a user logs in, touched on every renewal and
// deleted on logout. The repository owns validation and the lifecycle rules
// (immutable id and created_at, created_at <= updated_at); stores only move
// rows in and out of a database.
package sessionsrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
	"github.com/jrazmi/sessions/sdk/logger"
	"github.com/jrazmi/sessions/sdk/validation"
)

// Set of error values for operations on the session resource.
var (
	ErrInvalidSession  = errors.New("invalid session")
	ErrImmutableColumn = errors.New("column is immutable")
)

// Storer defines the data storage interface for Session.
type Storer interface {
	Insert(ctx context.Context, s Session) error
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	// List returns at most page.Limit rows after page.Cursor.
	List(ctx context.Context, filter SessionFilter, orderBy fop.By, page fop.PageStringCursor) ([]Session, error)
	// Update writes the assignments to the row with the given id.
	Update(ctx context.Context, id uuid.UUID, set []records.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// Repository provides access to session storage.
type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

// NewRepository creates a new Session repository
func NewRepository(log *logger.Logger, storer Storer, opts ...Option) *Repository {
	r := &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// clock returns the current instant in UTC at the microsecond precision
// PostgreSQL stores.
func (r *Repository) clock() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// Issue creates a new session for userID with a fresh id and created_at set
// to now. updated_at starts absent.
func (r *Repository) Issue(ctx context.Context, userID uuid.UUID) (Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Session{}, fmt.Errorf("issue session: generate id: %w", err)
	}

	return r.Create(ctx, NewSession(id, userID, r.clock(), nil))
}

// Create validates and stores a fully built session.
func (r *Repository) Create(ctx context.Context, s Session) (Session, error) {
	s = s.normalize()

	if err := validation.Check(s); err != nil {
		return Session{}, fmt.Errorf("create session: %w: %w", ErrInvalidSession, err)
	}

	if err := r.storer.Insert(ctx, s); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	r.log.InfoContext(ctx, "session created", "session_id", s.ID, "user_id", s.UserID)
	return s, nil
}

// Get returns the session with the given id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	s, err := r.storer.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return s, nil
}

// List returns one page of sessions matching filter.
func (r *Repository) List(ctx context.Context, filter SessionFilter, orderBy fop.By, page fop.PageStringCursor) ([]Session, fop.PageInfoStringCursor, error) {
	switch {
	case page.Limit <= 0:
		page.Limit = fop.DefaultLimit
	case page.Limit > fop.MaxLimit:
		page.Limit = fop.MaxLimit
	}
	if orderBy.Field == "" {
		orderBy = DefaultOrderBy
	}

	// one extra row tells us whether a next page exists
	fetch := page
	fetch.Limit++

	rows, err := r.storer.List(ctx, filter, orderBy, fetch)
	if err != nil {
		return nil, fop.PageInfoStringCursor{}, fmt.Errorf("list sessions: %w", err)
	}

	rows, info, err := fop.NewPageInfo(rows, page, func(last Session) (string, error) {
		return EncodeCursor(last, orderBy)
	})
	if err != nil {
		return nil, fop.PageInfoStringCursor{}, fmt.Errorf("list sessions: %w", err)
	}

	return rows, info, nil
}

// ListByUserID returns one page of the user's sessions, newest first.
func (r *Repository) ListByUserID(ctx context.Context, userID uuid.UUID, page fop.PageStringCursor) ([]Session, fop.PageInfoStringCursor, error) {
	return r.List(ctx, SessionFilter{UserID: &userID}, DefaultOrderBy, page)
}

// Touch refreshes updated_at on the session with the given id.
func (r *Repository) Touch(ctx context.Context, id uuid.UUID) (Session, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("touch: %w", err)
	}

	touched := current.Touched(r.clock())
	set := Sessions.Diff(&current, &touched)
	if len(set) == 0 {
		return current, nil
	}

	if err := r.storer.Update(ctx, id, set); err != nil {
		return Session{}, fmt.Errorf("touch session %s: %w", id, err)
	}

	r.log.DebugContext(ctx, "session touched", "session_id", id)
	return touched, nil
}

// Update stores the changed columns of s onto the session with the given id.
// id and created_at cannot change. Only columns that differ from the stored
// row are written; an unchanged session is not written at all.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, s Session) (Session, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return Session{}, fmt.Errorf("update: %w", err)
	}

	s = s.normalize()
	set := Sessions.Diff(&current, &s)
	for _, col := range []string{ColumnID, ColumnCreatedAt} {
		if records.Changed(set, col) {
			return Session{}, fmt.Errorf("update session %s: %w: %s", id, ErrImmutableColumn, col)
		}
	}

	if len(set) == 0 {
		return current, nil
	}

	if err := validation.Check(s); err != nil {
		return Session{}, fmt.Errorf("update session %s: %w: %w", id, ErrInvalidSession, err)
	}

	if err := r.storer.Update(ctx, id, set); err != nil {
		return Session{}, fmt.Errorf("update session %s: %w", id, err)
	}

	r.log.InfoContext(ctx, "session updated", "session_id", id, "columns", len(set))
	return s, nil
}

// Delete removes the session with the given id (logout).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.storer.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	r.log.InfoContext(ctx, "session deleted", "session_id", id)
	return nil
}

// DeleteByUserID removes every session of the user and reports how many
// were removed.
func (r *Repository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := r.storer.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions of user %s: %w", userID, err)
	}

	r.log.InfoContext(ctx, "user sessions deleted", "user_id", userID, "count", n)
	return n, nil
}
