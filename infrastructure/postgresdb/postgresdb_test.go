package postgresdb_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrazmi/sessions/core/records"
	"github.com/jrazmi/sessions/core/repositories"
	"github.com/jrazmi/sessions/infrastructure/postgresdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "id", want: `"id"`},
		{in: "public.session", want: `"public"."session"`},
		{in: "updated_at", want: `"updated_at"`},
		{in: "a.b.c", wantErr: true},
		{in: "id; DROP TABLE session", wantErr: true},
		{in: `id"`, wantErr: true},
		{in: "", wantErr: true},
		{in: "1abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := postgresdb.QuoteIdentifier(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColumnHelpers(t *testing.T) {
	list, err := postgresdb.QuoteIdentifiers([]string{"id", "user_id"})
	require.NoError(t, err)
	assert.Equal(t, `"id", "user_id"`, list)

	expr, err := postgresdb.Coalesce("updated_at", "created_at")
	require.NoError(t, err)
	assert.Equal(t, `COALESCE("updated_at", "created_at")`, expr)

	assert.Equal(t, "@id, @user_id", postgresdb.NamedParams([]string{"id", "user_id"}))
}

func TestCursorQuery(t *testing.T) {
	var buf bytes.Buffer
	data := pgx.NamedArgs{}
	opened := false

	buf.WriteString(`SELECT "id" FROM "public"."session"`)
	postgresdb.Where(&buf, &opened, `"user_id" = @user_id`)
	require.NoError(t, postgresdb.ApplyCursorPagination(&buf, &opened, data, `"created_at"`, "id", 10, "k", postgresdb.DESC))
	require.NoError(t, postgresdb.AddOrderByClause(&buf, `"created_at"`, "id", postgresdb.DESC))
	postgresdb.AddLimitClause(3, data, &buf)

	assert.Equal(t,
		`SELECT "id" FROM "public"."session" WHERE "user_id" = @user_id AND ("created_at", "id") < (@cursor_order_value, @cursor_pk) ORDER BY "created_at" DESC, "id" DESC LIMIT @limit`,
		buf.String())
	assert.Equal(t, 10, data["cursor_order_value"])
	assert.Equal(t, "k", data["cursor_pk"])
	assert.Equal(t, 3, data["limit"])

	assert.Error(t, postgresdb.AddOrderByClause(&buf, `"created_at"`, "id", "SIDEWAYS"))
}

func TestHandlePgError(t *testing.T) {
	assert.NoError(t, postgresdb.HandlePgError(nil))
	assert.ErrorIs(t, postgresdb.HandlePgError(pgx.ErrNoRows), repositories.ErrNotFound)
	assert.ErrorIs(t, postgresdb.HandlePgError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repositories.ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "session_pkey"}
	assert.ErrorIs(t, postgresdb.HandlePgError(dup), repositories.ErrDuplicate)

	missing := &pgconn.PgError{Code: "42P01", Message: `relation "session" does not exist`}
	assert.ErrorIs(t, postgresdb.HandlePgError(missing), postgresdb.ErrUndefinedTable)

	other := errors.New("boom")
	assert.Equal(t, other, postgresdb.HandlePgError(other))
}

func TestCreateTableSQL(t *testing.T) {
	table := records.Table{
		Schema: "public",
		Name:   "session",
		Columns: []records.Column{
			{Name: "id", Type: records.TypeUUID, PrimaryKey: true},
			{Name: "user_id", Type: records.TypeUUID},
			{Name: "created_at", Type: records.TypeTimestamp},
			{Name: "updated_at", Type: records.TypeTimestamp, Nullable: true},
		},
	}

	got, err := postgresdb.CreateTableSQL(table)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "public"."session" (
	"id" uuid PRIMARY KEY,
	"user_id" uuid NOT NULL,
	"created_at" timestamp NOT NULL,
	"updated_at" timestamp NULL
)`, got)

	table.Columns[0].Name = "bad name;"
	_, err = postgresdb.CreateTableSQL(table)
	assert.Error(t, err)
}

func TestCreateIndexSQL(t *testing.T) {
	table := records.Table{Schema: "public", Name: "session"}

	got, err := postgresdb.CreateIndexSQL(table, "user_id")
	require.NoError(t, err)
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "session_user_id_idx" ON "public"."session" ("user_id")`, got)

	_, err = postgresdb.CreateIndexSQL(table)
	assert.Error(t, err)
}
