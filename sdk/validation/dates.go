package validation

import (
	"fmt"
	"time"
)

// ParseFlexibleTime parses a timestamp given as RFC3339 (with or without
// fractional seconds) or as a bare date. Results are in UTC.
func ParseFlexibleTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		time.DateTime,
		time.DateOnly,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time: %s", s)
}

// FormatTimePtr renders t as RFC3339Nano, or "" when absent.
func FormatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
