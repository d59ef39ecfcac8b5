package cryptids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)
	assert.Len(t, id, IDLength)
	for _, r := range id {
		assert.True(t, strings.ContainsRune(IDAlphabet, r), "unexpected rune %q", r)
	}

	other, err := GenerateID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestGenerateCustomID(t *testing.T) {
	id, err := GenerateCustomID("ab", 64)
	require.NoError(t, err)
	assert.Len(t, id, 64)
	assert.Empty(t, strings.Trim(id, "ab"))

	_, err = GenerateCustomID("a", 4)
	assert.Error(t, err)
	_, err = GenerateCustomID("abc", 0)
	assert.Error(t, err)
}
