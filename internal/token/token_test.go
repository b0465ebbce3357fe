package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	code, err := NewCode()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(code, Prefix))
	require.Len(t, code, len(Prefix)+codeLength)

	for _, r := range strings.TrimPrefix(code, Prefix) {
		require.Contains(t, alphabet, string(r))
	}
}

func TestNewCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		require.False(t, seen[code], "duplicate code generated")
		seen[code] = true
	}
}
