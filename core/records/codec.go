package records

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the text layout used for timestamp columns. The fraction is
// fixed width so encoded UTC timestamps sort in time order. Decoding accepts
// any RFC 3339 timestamp.
const TimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// EncodeText renders a column value as text. Absent values return nil.
func EncodeText(col Column, value any) (*string, error) {
	if value == nil {
		return nil, nil
	}

	var s string
	switch v := value.(type) {
	case uuid.UUID:
		s = v.String()
	case time.Time:
		s = v.UTC().Format(TimeFormat)
	case string:
		s = v
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		return nil, fmt.Errorf("%w: column %s cannot encode %T as %s", ErrTypeMismatch, col.Name, value, col.Type)
	}
	return &s, nil
}

// DecodeText parses text produced by EncodeText back into the column's value.
func DecodeText(col Column, text *string) (any, error) {
	if text == nil {
		return nil, nil
	}

	switch col.Type {
	case TypeUUID:
		id, err := uuid.Parse(*text)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s: %w", ErrTypeMismatch, col.Name, err)
		}
		return id, nil
	case TypeTimestamp:
		t, err := time.Parse(time.RFC3339Nano, *text)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s: %w", ErrTypeMismatch, col.Name, err)
		}
		return t.UTC(), nil
	case TypeInt64:
		n, err := strconv.ParseInt(*text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s: %w", ErrTypeMismatch, col.Name, err)
		}
		return n, nil
	default:
		return *text, nil
	}
}

// TextValues extracts r as an ordered tuple of text values.
func (m *Mapper[R]) TextValues(r *R) ([]*string, error) {
	out := make([]*string, len(m.fields))
	for i, f := range m.fields {
		s, err := EncodeText(f.Column, f.get(r))
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// LoadText assigns an ordered tuple of text values onto r.
func (m *Mapper[R]) LoadText(r *R, text []*string) error {
	if len(text) != len(m.fields) {
		return fmt.Errorf("%w: %s has %d columns, got %d values", ErrTupleLength, m.table.Name, len(m.fields), len(text))
	}

	values := make([]any, len(text))
	for i, f := range m.fields {
		v, err := DecodeText(f.Column, text[i])
		if err != nil {
			return err
		}
		values[i] = v
	}
	return m.Load(r, values)
}
