package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type window struct {
	Name  string     `json:"name" validate:"required"`
	Start time.Time  `json:"start" validate:"required"`
	End   *time.Time `json:"end,omitempty" validate:"omitempty,gtefield=Start"`
}

func TestCheck(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, Check(window{Name: "a", Start: start}))
	assert.NoError(t, Check(window{Name: "a", Start: start, End: TimePtr(start)}))

	err := Check(window{Start: start, End: TimePtr(start.Add(-time.Second))})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "name: required")
	assert.Contains(t, err.Error(), "end: gtefield")
}

func TestParseFlexibleTime(t *testing.T) {
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-01-02", "2024-01-02T00:00:00Z", "2024-01-02T01:00:00+01:00", "2024-01-02 00:00:00"} {
		got, err := ParseFlexibleTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseFlexibleTime("yesterday")
	assert.Error(t, err)
}

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, "", StringPtrValue(nil))
	assert.Equal(t, "x", StringPtrValue(StringPtr("x")))
	assert.True(t, GetTimeOrEmpty(nil).IsZero())
	assert.Equal(t, "", FormatTimePtr(nil))
	assert.Equal(t, "2024-01-02T00:00:00Z", FormatTimePtr(TimePtr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))))
}
