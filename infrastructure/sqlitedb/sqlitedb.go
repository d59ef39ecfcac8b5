// Package sqlitedb opens embedded SQLite databases through the
// ncruces/go-sqlite3 database/sql driver.
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/repositories"
	"github.com/jrazmi/sessions/sdk/environment"
	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

type DB = sql.DB

// Options represents the exportable database configuration
type Options struct {
	Path         string        `env:"SQLITE_PATH" default:"sessions.db"`
	BusyTimeout  time.Duration `env:"SQLITE_BUSY_TIMEOUT" default:"5s"`
	MaxOpenConns int           `env:"SQLITE_MAX_OPEN_CONNS" default:"4"`
}

type options struct {
	path         string
	busyTimeout  time.Duration
	maxOpenConns int
}

// Option is a function that configures the database options
type Option func(*options)

// WithPath overrides the database file.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithBusyTimeout sets how long a writer waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) {
		o.busyTimeout = d
	}
}

// NewFromEnv opens the database configured by environment variables.
func NewFromEnv(prefix string, opts ...Option) (*sql.DB, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing sqlite config: %w", err)
	}
	return open(cfg, opts...)
}

// Open opens the database file at path.
func Open(path string, opts ...Option) (*sql.DB, error) {
	return open(Options{Path: path, BusyTimeout: 5 * time.Second, MaxOpenConns: 4}, opts...)
}

// InMemory opens a private in-memory database. The pool is limited to one
// connection since every connection would see its own empty database.
func InMemory() (*sql.DB, error) {
	return open(Options{Path: Memory, BusyTimeout: time.Second, MaxOpenConns: 1})
}

func open(cfg Options, opts ...Option) (*sql.DB, error) {
	o := &options{
		path:         cfg.Path,
		busyTimeout:  cfg.BusyTimeout,
		maxOpenConns: cfg.MaxOpenConns,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.path == Memory {
		o.maxOpenConns = 1
	}

	db, err := sql.Open("sqlite3", dsn(o))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if o.maxOpenConns > 0 {
		db.SetMaxOpenConns(o.maxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	return db, nil
}

func dsn(o *options) string {
	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(o.path)
	fmt.Fprintf(&b, "?_pragma=busy_timeout(%d)", o.busyTimeout.Milliseconds())
	if o.path != Memory {
		b.WriteString("&_pragma=journal_mode(wal)")
	}
	return b.String()
}

// StatusCheck returns nil if it can successfully talk to the database
func StatusCheck(ctx context.Context, db *sql.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}

	return db.PingContext(ctx)
}

// HandleSQLiteError converts SQLite errors to repository errors.
func HandleSQLiteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return repositories.ErrNotFound
	case errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY), errors.Is(err, sqlite3.CONSTRAINT_UNIQUE):
		return fmt.Errorf("%w: %w", repositories.ErrDuplicate, err)
	}
	return err
}

// QuoteIdentifier double-quotes name, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTable creates table unless it exists. Every column is stored as
// TEXT in the records text encoding; SQLite has no schemas so only the
// table name is used.
func CreateTable(ctx context.Context, db *sql.DB, table records.Table) error {
	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		def := QuoteIdentifier(col.Name) + " TEXT"
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		}
		if !col.Nullable {
			def += " NOT NULL"
		}
		defs[i] = def
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", QuoteIdentifier(table.Name), strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating table %s: %w", table.Name, err)
	}
	return nil
}

// CreateIndex creates a plain index on the given columns unless it exists.
func CreateIndex(ctx context.Context, db *sql.DB, table string, columns ...string) error {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdentifier(c)
	}
	name := table + "_" + strings.Join(columns, "_") + "_idx"

	query := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", QuoteIdentifier(name), QuoteIdentifier(table), strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating index %s: %w", name, err)
	}
	return nil
}
