package fop

import (
	"fmt"
	"strings"
)

// Set of directions for data ordering.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// By represents a field used to order by and its direction.
type By struct {
	Field     string
	Direction string
}

// NewBy constructs an ordering.
func NewBy(field, direction string) By {
	return By{Field: field, Direction: direction}
}

// ParseOrder parses "field" or "field,asc|desc". The field must be one of
// allowed; an empty input yields def.
func ParseOrder(allowed []string, orderBy string, def By) (By, error) {
	if orderBy == "" {
		return def, nil
	}

	field, dir, _ := strings.Cut(orderBy, ",")
	field = strings.TrimSpace(field)

	ok := false
	for _, a := range allowed {
		if a == field {
			ok = true
			break
		}
	}
	if !ok {
		return By{}, fmt.Errorf("unknown order field %q", field)
	}

	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", ASC:
		return NewBy(field, ASC), nil
	case DESC:
		return NewBy(field, DESC), nil
	default:
		return By{}, fmt.Errorf("unknown direction %q", dir)
	}
}
