package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(
		[]byte(strings.Repeat("e", 32)),
		[]byte(strings.Repeat("b", 32)),
	)
	require.NoError(t, err)
	return c
}

func TestNewCipher_KeyLengths(t *testing.T) {
	_, err := NewCipher([]byte("short"), []byte(strings.Repeat("b", 32)))
	assert.Error(t, err)
	_, err = NewCipher([]byte(strings.Repeat("e", 32)), []byte("short"))
	assert.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := testCipher(t)

	plaintext := "two eggs on toast, ate at my desk"
	enc, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, enc)

	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, plaintext, dec)
}

func TestEncrypt_EmptyStaysEmpty(t *testing.T) {
	c := testCipher(t)

	enc, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", enc)

	dec, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Equal(t, "", dec)
}

func TestEncrypt_NonDeterministic(t *testing.T) {
	c := testCipher(t)

	first, err := c.Encrypt("oatmeal")
	require.NoError(t, err)
	second, err := c.Encrypt("oatmeal")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestBlindIndex_Deterministic(t *testing.T) {
	c := testCipher(t)

	assert.Equal(t, c.BlindIndex("me@example.com"), c.BlindIndex("me@example.com"))
	assert.NotEqual(t, c.BlindIndex("me@example.com"), c.BlindIndex("you@example.com"))
	assert.Equal(t, "", c.BlindIndex(""))
}

func TestDecrypt_Garbage(t *testing.T) {
	c := testCipher(t)

	_, err := c.Decrypt("not base64!!!")
	assert.Error(t, err)

	_, err = c.Decrypt("c2hvcnQ=") // valid base64, too short for a nonce
	assert.Error(t, err)
}
