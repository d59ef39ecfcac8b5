package sqlitedb_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/repositories"
	"github.com/jrazmi/sessions/infrastructure/sqlitedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var table = records.Table{
	Name: "widget",
	Columns: []records.Column{
		{Name: "id", Type: records.TypeText, PrimaryKey: true},
		{Name: "owner", Type: records.TypeText},
		{Name: "note", Type: records.TypeText, Nullable: true},
	},
}

func TestCreateTableAndErrors(t *testing.T) {
	db, err := sqlitedb.InMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, sqlitedb.CreateTable(ctx, db, table))
	require.NoError(t, sqlitedb.CreateTable(ctx, db, table))
	require.NoError(t, sqlitedb.CreateIndex(ctx, db, "widget", "owner"))

	_, err = db.ExecContext(ctx, `INSERT INTO "widget" ("id", "owner", "note") VALUES (?, ?, NULL)`, "a", "x")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO "widget" ("id", "owner") VALUES (?, ?)`, "a", "y")
	assert.ErrorIs(t, sqlitedb.HandleSQLiteError(err), repositories.ErrDuplicate)

	_, err = db.ExecContext(ctx, `INSERT INTO "widget" ("id") VALUES (?)`, "b")
	assert.Error(t, err)

	var note sql.NullString
	err = db.QueryRowContext(ctx, `SELECT "note" FROM "widget" WHERE "id" = ?`, "a").Scan(&note)
	require.NoError(t, err)
	assert.False(t, note.Valid)

	err = db.QueryRowContext(ctx, `SELECT "note" FROM "widget" WHERE "id" = ?`, "zz").Scan(&note)
	assert.ErrorIs(t, sqlitedb.HandleSQLiteError(err), repositories.ErrNotFound)

	assert.NoError(t, sqlitedb.StatusCheck(ctx, db))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := sqlitedb.Open(path)
	require.NoError(t, err)
	require.NoError(t, sqlitedb.CreateTable(context.Background(), db, table))
	require.NoError(t, db.Close())

	db, err = sqlitedb.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var n int
	err = db.QueryRow(`SELECT count(*) FROM "widget"`).Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"session"`, sqlitedb.QuoteIdentifier("session"))
	assert.Equal(t, `"a""b"`, sqlitedb.QuoteIdentifier(`a"b`))
	assert.NoError(t, sqlitedb.HandleSQLiteError(nil))
}
