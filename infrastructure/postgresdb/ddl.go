package postgresdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrazmi/sessions/core/records"
)

var columnTypes = map[records.Type]string{
	records.TypeText:      "text",
	records.TypeUUID:      "uuid",
	records.TypeTimestamp: "timestamp",
	records.TypeInt64:     "bigint",
}

// CreateTableSQL renders CREATE TABLE IF NOT EXISTS for table.
func CreateTableSQL(table records.Table) (string, error) {
	name, err := QuoteIdentifier(table.QualifiedName())
	if err != nil {
		return "", err
	}

	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		quoted, err := QuoteIdentifier(col.Name)
		if err != nil {
			return "", err
		}
		typ, ok := columnTypes[col.Type]
		if !ok {
			return "", fmt.Errorf("column %s: no postgres type for %s", col.Name, col.Type)
		}

		def := quoted + " " + typ
		switch {
		case col.PrimaryKey:
			def += " PRIMARY KEY"
		case col.Nullable:
			def += " NULL"
		default:
			def += " NOT NULL"
		}
		defs[i] = def
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", name, strings.Join(defs, ",\n\t")), nil
}

// EnsureTable creates table unless it exists.
func EnsureTable(ctx context.Context, pool *Pool, table records.Table) error {
	query, err := CreateTableSQL(table)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, query); err != nil {
		return HandlePgError(err)
	}
	return nil
}

// CreateIndexSQL renders CREATE INDEX IF NOT EXISTS on table over columns.
// The index is named <table>_<col>..._idx.
func CreateIndexSQL(table records.Table, columns ...string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("index on %s: no columns", table.Name)
	}
	name, err := QuoteIdentifier(table.QualifiedName())
	if err != nil {
		return "", err
	}
	cols, err := QuoteIdentifiers(columns)
	if err != nil {
		return "", err
	}
	index, err := QuoteIdentifier(table.Name + "_" + strings.Join(columns, "_") + "_idx")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", index, name, cols), nil
}

// EnsureIndex creates the index unless it exists.
func EnsureIndex(ctx context.Context, pool *Pool, table records.Table, columns ...string) error {
	query, err := CreateIndexSQL(table, columns...)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, query); err != nil {
		return HandlePgError(err)
	}
	return nil
}
