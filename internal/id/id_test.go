package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("user")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "user-"))
	// Prefix + separator + 21-char NanoID
	assert.Len(t, got, len("user-")+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got, err := Generate("act")
		require.NoError(t, err)
		require.False(t, seen[got], "generated duplicate ID %s", got)
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		got := MustGenerate("sess")
		assert.True(t, strings.HasPrefix(got, "sess-"))
	})
}
