package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnsdk/pncore/internal/pal"
)

func TestLegacyRoundTrip(t *testing.T) {
	m := NewLegacy("enigma")
	ciphertext, err := m.Encrypt([]byte(`{"hello":"world"}`))
	require.NoError(t, err)

	plaintext, err := m.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, string(plaintext))
}

func TestLegacyFixedIVIsDeterministic(t *testing.T) {
	m := NewLegacy("enigma")
	a, err := m.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	b, err := m.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	assert.Equal(t, a, b, "legacy cipher reuses a fixed IV, so identical plaintext encrypts identically")
}

func TestLegacyDecryptRejectsGarbage(t *testing.T) {
	m := NewLegacy("enigma")
	_, err := m.Decrypt([]byte(`"not-valid-base64!!"`))
	assert.Error(t, err)
}

func TestAESCBCRoundTrip(t *testing.T) {
	m := NewAESCBC("enigma", pal.CryptoRandPRNG{})
	ciphertext, err := m.Encrypt([]byte(`{"hello":"world"}`))
	require.NoError(t, err)

	plaintext, err := m.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, string(plaintext))
}

func TestAESCBCRandomIVProducesDistinctCiphertexts(t *testing.T) {
	m := NewAESCBC("enigma", pal.CryptoRandPRNG{})
	a, err := m.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	b, err := m.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "random IV means identical plaintext must not encrypt identically")
}

func TestAESCBCDecryptRejectsShortCiphertext(t *testing.T) {
	m := NewAESCBC("enigma", pal.CryptoRandPRNG{})
	_, err := m.Decrypt([]byte(`"YQ=="`))
	assert.Error(t, err)
}
