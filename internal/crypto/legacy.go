package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// legacyIV is the fixed 16-byte initialization vector every legacy
// cipher uses. It was never meant to be secret; it exists only so old
// SDK versions that don't support random IVs can still interoperate.
var legacyIV = []byte("0123456789012345")

// Legacy derives its key from a passphrase the same way the original
// SDKs did: SHA-256 the passphrase, hex-encode the digest, and take the
// first 32 bytes of that hex string as the AES-256 key. Every ciphertext
// uses the same fixed IV, base64-encoded and wrapped in a JSON string.
type Legacy struct {
	key []byte
}

// NewLegacy derives an AES-256 key from passphrase.
func NewLegacy(passphrase string) *Legacy {
	sum := sha256.Sum256([]byte(passphrase))
	hexDigest := hex.EncodeToString(sum[:])
	return &Legacy{key: []byte(hexDigest[:32])}
}

func (l *Legacy) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(l.key)
	if err != nil {
		return nil, fmt.Errorf("legacy: new cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cbc := cipher.NewCBCEncrypter(block, legacyIV)
	cbc.CryptBlocks(ciphertext, padded)

	encoded := base64.StdEncoding.EncodeToString(ciphertext)
	return []byte(`"` + encoded + `"`), nil
}

func (l *Legacy) Decrypt(ciphertext []byte) ([]byte, error) {
	trimmed := bytes.Trim(ciphertext, `"`)
	raw, err := base64.StdEncoding.DecodeString(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("legacy: base64 decode: %w", err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return nil, errors.New("legacy: ciphertext is not a multiple of the block size")
	}

	block, err := aes.NewCipher(l.key)
	if err != nil {
		return nil, fmt.Errorf("legacy: new cipher: %w", err)
	}

	plaintext := make([]byte, len(raw))
	cbc := cipher.NewCBCDecrypter(block, legacyIV)
	cbc.CryptBlocks(plaintext, raw)

	return pkcs7Unpad(plaintext)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(append([]byte(nil), data...), padding...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("pkcs7: empty input")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, errors.New("pkcs7: invalid padding")
	}
	return data[:len(data)-padLen], nil
}

var _ Module = (*Legacy)(nil)
