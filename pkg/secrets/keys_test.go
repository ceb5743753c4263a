package secrets_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authguard/pkg/secrets"
)

func TestGenerateKey(t *testing.T) {
	t.Parallel()
	k1, err := secrets.GenerateKey()
	require.NoError(t, err)
	k2, err := secrets.GenerateKey()
	require.NoError(t, err)

	assert.Len(t, k1, secrets.KeySize)
	assert.NotEqual(t, k1, k2)
}

func TestEncodeDecodeKey(t *testing.T) {
	t.Parallel()
	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	decoded, err := secrets.DecodeKey(secrets.EncodeKey(key))
	require.NoError(t, err)
	assert.Equal(t, key, decoded)

	_, err = secrets.DecodeKey("not base64!")
	require.ErrorIs(t, err, secrets.ErrFailedToDecodeKey)

	_, err = secrets.DecodeKey(base64.StdEncoding.EncodeToString([]byte("short")))
	require.ErrorIs(t, err, secrets.ErrInvalidKey)
}

func TestSHA256Hex(t *testing.T) {
	t.Parallel()
	// echo -n "abc" | sha256sum
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", secrets.SHA256Hex("abc"))
	assert.True(t, secrets.CompareHash(secrets.SHA256Hex("abc"), secrets.SHA256Hex("abc")))
	assert.False(t, secrets.CompareHash(secrets.SHA256Hex("abc"), secrets.SHA256Hex("abd")))
	assert.False(t, secrets.CompareHash("abc", "abcd"))
}

func TestRandomString(t *testing.T) {
	t.Parallel()

	s, err := secrets.RandomString(48, "")
	require.NoError(t, err)
	assert.Len(t, s, 48)
	for _, r := range s {
		assert.True(t, strings.ContainsRune(secrets.AlphabetAlphanumeric, r))
	}

	code, err := secrets.RandomString(10, secrets.AlphabetUpperAlphanumeric)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{10}$`, code)

	empty, err := secrets.RandomString(0, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
