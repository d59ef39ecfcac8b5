// Package records maps plain structs onto the ordered, typed columns of a table.
//
// A Mapper is declared once per table with one Field per column, in column
// order. Records themselves stay plain structs with named fields; the mapper
// provides the positional (tuple) protocol used by bulk load/store code:
//
//	var Sessions = records.NewMapper("public", "session",
//	    records.NewField(records.Column{Name: "id", Type: records.TypeUUID, PrimaryKey: true},
//	        func(s *Session) *uuid.UUID { return &s.ID }),
//	    records.NewNullField(records.Column{Name: "updated_at", Type: records.TypeTimestamp},
//	        func(s *Session) **time.Time { return &s.UpdatedAt }),
//	)
//
//	values := Sessions.Values(&s)          // ordered tuple
//	s2, err := Sessions.New(values...)     // tuple back to a record
package records

import (
	"fmt"
	"strings"
)

// Type is the storage kind of a column value.
type Type int

// Set of supported column types.
const (
	TypeText Type = iota
	TypeUUID
	TypeTimestamp
	TypeInt64
)

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeUUID:
		return "uuid"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "bigint"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Column describes a named, typed table attribute.
type Column struct {
	Name       string
	Type       Type
	Nullable   bool
	PrimaryKey bool
}

// Table is the persisted shape a Mapper is bound to.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// QualifiedName returns schema.name, or just name when no schema is set.
func (t Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// ColumnNames returns the column names in column order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the primary key column.
func (t Table) PrimaryKey() Column {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	return Column{}
}

// Mapper binds an ordered list of fields to the record type R.
// It is immutable once built and safe for concurrent use.
type Mapper[R any] struct {
	table  Table
	fields []Field[R]
	index  map[string]int
	pk     int
}

// NewMapper builds the mapper for schema.table. It panics when a column name
// is repeated or when the table does not have exactly one primary key column;
// both are declaration mistakes.
func NewMapper[R any](schema, table string, fields ...Field[R]) *Mapper[R] {
	m := &Mapper[R]{
		table:  Table{Schema: schema, Name: table, Columns: make([]Column, len(fields))},
		fields: fields,
		index:  make(map[string]int, len(fields)),
		pk:     -1,
	}

	for i, f := range fields {
		if _, exists := m.index[f.Name]; exists {
			panic(fmt.Sprintf("records: duplicate column %q in %s", f.Name, table))
		}
		m.index[f.Name] = i
		m.table.Columns[i] = f.Column

		if f.PrimaryKey {
			if m.pk >= 0 {
				panic(fmt.Sprintf("records: composite primary key in %s is not supported", table))
			}
			m.pk = i
		}
	}

	if m.pk < 0 {
		panic(fmt.Sprintf("records: table %s has no primary key column", table))
	}

	return m
}

// Table returns the persisted shape.
func (m *Mapper[R]) Table() Table {
	return m.table
}

// Columns returns the column names in column order.
func (m *Mapper[R]) Columns() []string {
	return m.table.ColumnNames()
}

// Len returns the number of columns.
func (m *Mapper[R]) Len() int {
	return len(m.fields)
}

// Index returns the position of the named column.
func (m *Mapper[R]) Index(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// Key returns the primary key value of r.
func (m *Mapper[R]) Key(r *R) any {
	return m.fields[m.pk].get(r)
}

// Values extracts r as an ordered tuple. Absent nullable values are nil.
func (m *Mapper[R]) Values(r *R) []any {
	values := make([]any, len(m.fields))
	for i, f := range m.fields {
		values[i] = f.get(r)
	}
	return values
}

// Load assigns an ordered tuple onto r. On error r is left unchanged.
func (m *Mapper[R]) Load(r *R, values []any) error {
	if len(values) != len(m.fields) {
		return fmt.Errorf("%w: %s has %d columns, got %d values", ErrTupleLength, m.table.Name, len(m.fields), len(values))
	}

	tmp := *r
	for i, f := range m.fields {
		if err := f.set(&tmp, values[i]); err != nil {
			return err
		}
	}
	*r = tmp
	return nil
}

// New constructs a record from an ordered tuple.
func (m *Mapper[R]) New(values ...any) (R, error) {
	var r R
	if err := m.Load(&r, values); err != nil {
		var zero R
		return zero, err
	}
	return r, nil
}

// Get returns the value of the named column.
func (m *Mapper[R]) Get(r *R, name string) (any, error) {
	i, ok := m.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, m.table.Name, name)
	}
	return m.fields[i].get(r), nil
}

// GetAt returns the value of the column at position i.
func (m *Mapper[R]) GetAt(r *R, i int) (any, error) {
	if i < 0 || i >= len(m.fields) {
		return nil, fmt.Errorf("%w: %s has no column at index %d", ErrUnknownColumn, m.table.Name, i)
	}
	return m.fields[i].get(r), nil
}

// Set assigns the named column.
func (m *Mapper[R]) Set(r *R, name string, value any) error {
	i, ok := m.index[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, m.table.Name, name)
	}
	return m.fields[i].set(r, value)
}

// SetAt assigns the column at position i.
func (m *Mapper[R]) SetAt(r *R, i int, value any) error {
	if i < 0 || i >= len(m.fields) {
		return fmt.Errorf("%w: %s has no column at index %d", ErrUnknownColumn, m.table.Name, i)
	}
	return m.fields[i].set(r, value)
}

// ScanTargets returns pointers into r, in column order, suitable for a
// driver's Scan. Nullable columns yield pointer-to-pointer targets.
func (m *Mapper[R]) ScanTargets(r *R) []any {
	targets := make([]any, len(m.fields))
	for i, f := range m.fields {
		targets[i] = f.target(r)
	}
	return targets
}

// String renders the mapper as "schema.table(col, col, ...)".
func (m *Mapper[R]) String() string {
	return fmt.Sprintf("%s(%s)", m.table.QualifiedName(), strings.Join(m.Columns(), ", "))
}
