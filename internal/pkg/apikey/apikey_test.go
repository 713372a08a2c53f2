package apikey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ShapeAndAlphabet(t *testing.T) {
	t.Parallel()

	key, err := Generate()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, Prefix))
	assert.Len(t, key, len(Prefix)+keyLength)
	assert.Regexp(t, `^lf_[0-9a-zA-Z]{40}$`, key)
}

func TestGenerate_UniqueWithinSmallBatch(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key, err := Generate()
		require.NoError(t, err)
		_, dup := seen[key]
		require.False(t, dup, "duplicate key generated: %s", key)
		seen[key] = struct{}{}
	}
}

func TestRandomBase62_InvalidLength(t *testing.T) {
	t.Parallel()

	_, err := randomBase62(0)
	assert.Error(t, err)
}
