package postgresdb

import (
	"bytes"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// Where appends a condition, opening the WHERE clause on the first call.
// opened tracks whether the clause has been started.
func Where(buf *bytes.Buffer, opened *bool, cond string) {
	if *opened {
		buf.WriteString(" AND ")
	} else {
		buf.WriteString(" WHERE ")
		*opened = true
	}
	buf.WriteString(cond)
}

// ApplyCursorPagination appends the keyset condition that resumes after the
// row whose order value and primary key are given. orderExpr is already
// rendered SQL (a quoted column or an expression over quoted columns).
func ApplyCursorPagination[K any, O any](
	buf *bytes.Buffer,
	opened *bool,
	data pgx.NamedArgs,
	orderExpr string,
	pkField string,
	orderValue O,
	keyValue K,
	direction string,
) error {
	quotedPK, err := QuoteIdentifier(pkField)
	if err != nil {
		return fmt.Errorf("invalid pk field: %w", err)
	}

	// e.g. ("created_at", "id") < (@cursor_order_value, @cursor_pk)
	Where(buf, opened, fmt.Sprintf("(%s, %s) %s (@cursor_order_value, @cursor_pk)", orderExpr, quotedPK, CursorOperator(direction)))

	data["cursor_order_value"] = orderValue
	data["cursor_pk"] = keyValue

	return nil
}

// CursorOperator returns the comparison that moves forward in direction.
func CursorOperator(direction string) string {
	if direction == DESC {
		return "<"
	}
	return ">"
}

// AddOrderByClause adds ORDER BY on orderExpr with the primary key as a
// tie breaker.
func AddOrderByClause(buf *bytes.Buffer, orderExpr, pkField, direction string) error {
	quotedPK, err := QuoteIdentifier(pkField)
	if err != nil {
		return fmt.Errorf("invalid pk field name: %w", err)
	}
	if direction != ASC && direction != DESC {
		return fmt.Errorf("invalid direction %q", direction)
	}

	fmt.Fprintf(buf, " ORDER BY %s %s, %s %s", orderExpr, direction, quotedPK, direction)
	return nil
}

// AddLimitClause adds LIMIT clause to the query buffer
func AddLimitClause(limit int, data pgx.NamedArgs, buf *bytes.Buffer) {
	buf.WriteString(" LIMIT @limit")
	data["limit"] = limit
}
