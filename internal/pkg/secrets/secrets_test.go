package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealOpen(t *testing.T) {
	box, err := NewBox(testKey)
	require.NoError(t, err)

	sealed, err := box.Seal("abcd efgh ijkl mnop")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "abcd")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abcd efgh ijkl mnop", plain)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	box, err := NewBox(testKey)
	require.NoError(t, err)
	a, _ := box.Seal("same")
	b, _ := box.Seal("same")
	assert.NotEqual(t, a, b)
}

func TestOpen_WrongKey(t *testing.T) {
	box, _ := NewBox(testKey)
	other, _ := NewBox(strings.Repeat("ff", 32))

	sealed, err := box.Seal("secret")
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestOpen_Garbage(t *testing.T) {
	box, _ := NewBox(testKey)
	for _, in := range []string{"", "not base64!", "c2hvcnQ="} {
		_, err := box.Open(in)
		assert.ErrorIs(t, err, ErrInvalidCiphertext, in)
	}
}

func TestNewBox_BadKey(t *testing.T) {
	_, err := NewBox("zz")
	assert.Error(t, err)
	_, err = NewBox("0011")
	assert.Error(t, err)
}
