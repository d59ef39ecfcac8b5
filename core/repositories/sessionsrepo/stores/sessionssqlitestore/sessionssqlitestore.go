// Package sessionssqlitestore implements sessionsrepo.Storer on an embedded
// SQLite database. Values are stored as TEXT in the records text encoding.
package sessionssqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/repositories"
	"github.com/jrazmi/sessions/core/repositories/sessionsrepo"
	"github.com/jrazmi/sessions/core/scaffolding/fop"
	"github.com/jrazmi/sessions/infrastructure/sqlitedb"
	"github.com/jrazmi/sessions/sdk/logger"
)

// Store provides SQLite access for sessions.
type Store struct {
	log *logger.Logger
	db  *sqlitedb.DB

	table   string
	columns string
}

// NewStore creates a new SQLite session store.
func NewStore(log *logger.Logger, db *sqlitedb.DB) *Store {
	cols := sessionsrepo.Sessions.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = sqlitedb.QuoteIdentifier(c)
	}

	return &Store{
		log:     log,
		db:      db,
		table:   sqlitedb.QuoteIdentifier(sessionsrepo.Sessions.Table().Name),
		columns: strings.Join(quoted, ", "),
	}
}

// EnsureSchema creates the session table and its user index if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	tbl := sessionsrepo.Sessions.Table()
	if err := sqlitedb.CreateTable(ctx, s.db, tbl); err != nil {
		return err
	}
	return sqlitedb.CreateIndex(ctx, s.db, tbl.Name, sessionsrepo.ColumnUserID)
}

// scanSession reads one row selected with s.columns.
func scanSession(scan func(dest ...any) error) (sessionsrepo.Session, error) {
	raw := make([]sql.NullString, sessionsrepo.Sessions.Len())
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := scan(dest...); err != nil {
		return sessionsrepo.Session{}, err
	}

	text := make([]*string, len(raw))
	for i, r := range raw {
		if r.Valid {
			text[i] = &r.String
		}
	}

	var session sessionsrepo.Session
	if err := sessionsrepo.Sessions.LoadText(&session, text); err != nil {
		return sessionsrepo.Session{}, fmt.Errorf("load session row: %w", err)
	}
	return session, nil
}

// args converts text values to driver arguments, keeping absent values NULL.
func args(text []*string) []any {
	out := make([]any, len(text))
	for i, t := range text {
		if t != nil {
			out[i] = *t
		}
	}
	return out
}

func (s *Store) Insert(ctx context.Context, session sessionsrepo.Session) error {
	text, err := sessionsrepo.Sessions.TextValues(&session)
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(text)), ", ")
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, s.table, s.columns, placeholders)

	if _, err := s.db.ExecContext(ctx, query, args(text)...); err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (sessionsrepo.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE "id" = ?`, s.columns, s.table)

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id.String()).Scan)
	if err != nil {
		return sessionsrepo.Session{}, sqlitedb.HandleSQLiteError(err)
	}
	return session, nil
}

func (s *Store) List(ctx context.Context, filter sessionsrepo.SessionFilter, orderBy fop.By, page fop.PageStringCursor) ([]sessionsrepo.Session, error) {
	var (
		conds []string
		vals  []any
	)

	if filter.ID != nil {
		conds = append(conds, `"id" = ?`)
		vals = append(vals, filter.ID.String())
	}
	if filter.UserID != nil {
		conds = append(conds, `"user_id" = ?`)
		vals = append(vals, filter.UserID.String())
	}
	if filter.CreatedAfter != nil {
		conds = append(conds, `"created_at" >= ?`)
		vals = append(vals, filter.CreatedAfter.UTC().Format(records.TimeFormat))
	}
	if filter.CreatedBefore != nil {
		conds = append(conds, `"created_at" < ?`)
		vals = append(vals, filter.CreatedBefore.UTC().Format(records.TimeFormat))
	}

	var orderExpr string
	switch orderBy.Field {
	case sessionsrepo.OrderByCreatedAt:
		orderExpr = `"created_at"`
	case sessionsrepo.OrderByLastActive:
		orderExpr = `COALESCE("updated_at", "created_at")`
	default:
		return nil, fmt.Errorf("%w: order by %q", repositories.ErrOperationNotSupported, orderBy.Field)
	}

	direction := fop.ASC
	operator := ">"
	if orderBy.Direction == fop.DESC {
		direction = fop.DESC
		operator = "<"
	}

	cursor, err := sessionsrepo.DecodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		conds = append(conds, fmt.Sprintf(`(%s, "id") %s (?, ?)`, orderExpr, operator))
		vals = append(vals, cursor.OrderValue.UTC().Format(records.TimeFormat), cursor.PK.String())
	}

	var b strings.Builder
	fmt.Fprintf(&b, `SELECT %s FROM %s`, s.columns, s.table)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	fmt.Fprintf(&b, ` ORDER BY %s %s, "id" %s LIMIT ?`, orderExpr, direction, direction)
	vals = append(vals, page.Limit)

	rows, err := s.db.QueryContext(ctx, b.String(), vals...)
	if err != nil {
		return nil, sqlitedb.HandleSQLiteError(err)
	}
	defer rows.Close()

	var sessions []sessionsrepo.Session
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlitedb.HandleSQLiteError(err)
	}
	return sessions, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, set []records.Assignment) error {
	if len(set) == 0 {
		return nil
	}

	assignments := make([]string, len(set))
	vals := make([]any, 0, len(set)+1)
	for i, a := range set {
		text, err := records.EncodeText(a.Column, a.Value)
		if err != nil {
			return err
		}
		assignments[i] = sqlitedb.QuoteIdentifier(a.Column.Name) + " = ?"
		vals = append(vals, args([]*string{text})[0])
	}
	vals = append(vals, id.String())

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE "id" = ?`, s.table, strings.Join(assignments, ", "))
	res, err := s.db.ExecContext(ctx, query, vals...)
	if err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	return requireRow(res)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE "id" = ?`, s.table)

	res, err := s.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return sqlitedb.HandleSQLiteError(err)
	}
	return requireRow(res)
}

func (s *Store) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE "user_id" = ?`, s.table)

	res, err := s.db.ExecContext(ctx, query, userID.String())
	if err != nil {
		return 0, sqlitedb.HandleSQLiteError(err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
