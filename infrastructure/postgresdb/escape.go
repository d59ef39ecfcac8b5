package postgresdb

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// QuoteIdentifier validates and quotes an SQL identifier. A single
// schema qualifier is allowed: "public.session" becomes "public"."session".
func QuoteIdentifier(name string) (string, error) {
	segments := strings.Split(name, ".")
	if len(segments) > 2 {
		return "", fmt.Errorf("invalid identifier format (too many segments): %s", name)
	}

	quoted := make([]string, len(segments))
	for i, segment := range segments {
		if !identifierPattern.MatchString(segment) {
			return "", fmt.Errorf("invalid identifier segment at position %d: %q", i, segment)
		}
		quoted[i] = `"` + segment + `"`
	}
	return strings.Join(quoted, "."), nil
}

// QuoteIdentifiers quotes each name and joins them with ", ".
func QuoteIdentifiers(names []string) (string, error) {
	quoted := make([]string, len(names))
	for i, name := range names {
		q, err := QuoteIdentifier(name)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, ", "), nil
}

// Coalesce renders COALESCE over the quoted columns.
func Coalesce(names ...string) (string, error) {
	list, err := QuoteIdentifiers(names)
	if err != nil {
		return "", err
	}
	return "COALESCE(" + list + ")", nil
}

// NamedParams renders "@a, @b" for use with pgx.NamedArgs.
func NamedParams(names []string) string {
	params := make([]string, len(names))
	for i, name := range names {
		params[i] = "@" + name
	}
	return strings.Join(params, ", ")
}
