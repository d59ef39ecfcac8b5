// Package sessionspgxstore implements sessionsrepo.Storer on PostgreSQL.
package sessionspgxstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/repositories"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
	"github.com/jrazmi/sessions/infrastructure/postgresdb"
	"github.com/jrazmi/sessions/sdk/logger"
)

// Store provides PostgreSQL access for sessions.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool

	table   string
	columns string
}

// NewStore creates a new PostgreSQL session store.
func NewStore(log *logger.Logger, pool *postgresdb.Pool) (*Store, error) {
	table, err := postgresdb.QuoteIdentifier(sessionsrepo.Sessions.Table().QualifiedName())
	if err != nil {
		return nil, fmt.Errorf("session table: %w", err)
	}
	columns, err := postgresdb.QuoteIdentifiers(sessionsrepo.Sessions.Columns())
	if err != nil {
		return nil, fmt.Errorf("session columns: %w", err)
	}

	return &Store{
		log:     log,
		pool:    pool,
		table:   table,
		columns: columns,
	}, nil
}

// EnsureSchema creates the session table and its user index if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	tbl := sessionsrepo.Sessions.Table()
	if err := postgresdb.EnsureTable(ctx, s.pool, tbl); err != nil {
		return err
	}
	return postgresdb.EnsureIndex(ctx, s.pool, tbl, sessionsrepo.ColumnUserID)
}

// scanSession reads one row selected with s.columns.
func scanSession(row pgx.CollectableRow) (sessionsrepo.Session, error) {
	var s sessionsrepo.Session
	if err := row.Scan(sessionsrepo.Sessions.ScanTargets(&s)...); err != nil {
		return sessionsrepo.Session{}, err
	}
	return s, nil
}

func (s *Store) Insert(ctx context.Context, session sessionsrepo.Session) error {
	cols := sessionsrepo.Sessions.Columns()
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, s.table, s.columns, postgresdb.NamedParams(cols))

	args := pgx.NamedArgs{}
	for i, v := range session.Values() {
		args[cols[i]] = v
	}

	if _, err := s.pool.Exec(ctx, query, args); err != nil {
		return postgresdb.HandlePgError(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (sessionsrepo.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE "id" = @id`, s.columns, s.table)

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		return sessionsrepo.Session{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	session, err := pgx.CollectOneRow(rows, scanSession)
	if err != nil {
		return sessionsrepo.Session{}, postgresdb.HandlePgError(err)
	}
	return session, nil
}

func (s *Store) List(ctx context.Context, filter sessionsrepo.SessionFilter, orderBy fop.By, page fop.PageStringCursor) ([]sessionsrepo.Session, error) {
	var buf bytes.Buffer
	args := pgx.NamedArgs{}
	opened := false

	fmt.Fprintf(&buf, `SELECT %s FROM %s`, s.columns, s.table)
	applyFilter(&buf, &opened, args, filter)

	orderExpr, err := orderExpression(orderBy)
	if err != nil {
		return nil, err
	}

	cursor, err := sessionsrepo.DecodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		err := postgresdb.ApplyCursorPagination(&buf, &opened, args, orderExpr, sessionsrepo.ColumnID, cursor.OrderValue, cursor.PK, orderBy.Direction)
		if err != nil {
			return nil, err
		}
	}

	if err := postgresdb.AddOrderByClause(&buf, orderExpr, sessionsrepo.ColumnID, orderBy.Direction); err != nil {
		return nil, err
	}
	postgresdb.AddLimitClause(page.Limit, args, &buf)

	rows, err := s.pool.Query(ctx, buf.String(), args)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	sessions, err := pgx.CollectRows(rows, scanSession)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return sessions, nil
}

func applyFilter(buf *bytes.Buffer, opened *bool, args pgx.NamedArgs, filter sessionsrepo.SessionFilter) {
	if filter.ID != nil {
		postgresdb.Where(buf, opened, `"id" = @filter_id`)
		args["filter_id"] = *filter.ID
	}
	if filter.UserID != nil {
		postgresdb.Where(buf, opened, `"user_id" = @filter_user_id`)
		args["filter_user_id"] = *filter.UserID
	}
	if filter.CreatedAfter != nil {
		postgresdb.Where(buf, opened, `"created_at" >= @filter_created_after`)
		args["filter_created_after"] = *filter.CreatedAfter
	}
	if filter.CreatedBefore != nil {
		postgresdb.Where(buf, opened, `"created_at" < @filter_created_before`)
		args["filter_created_before"] = *filter.CreatedBefore
	}
}

func orderExpression(orderBy fop.By) (string, error) {
	switch orderBy.Field {
	case sessionsrepo.OrderByCreatedAt:
		return postgresdb.QuoteIdentifier(sessionsrepo.ColumnCreatedAt)
	case sessionsrepo.OrderByLastActive:
		return postgresdb.Coalesce(sessionsrepo.ColumnUpdatedAt, sessionsrepo.ColumnCreatedAt)
	default:
		return "", fmt.Errorf("%w: order by %q", repositories.ErrOperationNotSupported, orderBy.Field)
	}
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, set []records.Assignment) error {
	if len(set) == 0 {
		return nil
	}

	var buf bytes.Buffer
	args := pgx.NamedArgs{"id": id}

	fmt.Fprintf(&buf, `UPDATE %s SET `, s.table)
	for i, a := range set {
		col, err := postgresdb.QuoteIdentifier(a.Column.Name)
		if err != nil {
			return err
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		param := "set_" + a.Column.Name
		fmt.Fprintf(&buf, `%s = @%s`, col, param)
		args[param] = a.Value
	}
	buf.WriteString(` WHERE "id" = @id`)

	tag, err := s.pool.Exec(ctx, buf.String(), args)
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE "id" = @id`, s.table)

	tag, err := s.pool.Exec(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE "user_id" = @user_id`, s.table)

	tag, err := s.pool.Exec(ctx, query, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}
