package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/pnsdk/pncore/internal/pal"
)

// AESCBC derives its key from the full 32-byte SHA-256 digest of the
// passphrase (unlike Legacy, which hex-encodes and truncates), and
// prefixes a fresh random IV to every ciphertext it produces instead of
// reusing a fixed one.
type AESCBC struct {
	key  [32]byte
	prng pal.PRNG
}

// NewAESCBC derives the key from passphrase. prng supplies the IV for
// Encrypt; pass pal.CryptoRandPRNG{} for the default.
func NewAESCBC(passphrase string, prng pal.PRNG) *AESCBC {
	return &AESCBC{key: sha256.Sum256([]byte(passphrase)), prng: prng}
}

func (a *AESCBC) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(a.key[:])
	if err != nil {
		return nil, fmt.Errorf("aescbc: new cipher: %w", err)
	}

	iv, err := a.prng.RandomIV()
	if err != nil {
		return nil, fmt.Errorf("aescbc: random iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cbc := cipher.NewCBCEncrypter(block, iv[:])
	cbc.CryptBlocks(ciphertext, padded)

	combined := append(append([]byte(nil), iv[:]...), ciphertext...)
	encoded := base64.StdEncoding.EncodeToString(combined)
	return []byte(`"` + encoded + `"`), nil
}

func (a *AESCBC) Decrypt(ciphertext []byte) ([]byte, error) {
	trimmed := bytes.Trim(ciphertext, `"`)
	raw, err := base64.StdEncoding.DecodeString(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("aescbc: base64 decode: %w", err)
	}
	if len(raw) <= aes.BlockSize {
		return nil, errors.New("aescbc: ciphertext too short to contain an iv")
	}

	iv := raw[:aes.BlockSize]
	body := raw[aes.BlockSize:]
	if len(body)%aes.BlockSize != 0 {
		return nil, errors.New("aescbc: body is not a multiple of the block size")
	}

	block, err := aes.NewCipher(a.key[:])
	if err != nil {
		return nil, fmt.Errorf("aescbc: new cipher: %w", err)
	}

	plaintext := make([]byte, len(body))
	cbc := cipher.NewCBCDecrypter(block, iv)
	cbc.CryptBlocks(plaintext, body)

	return pkcs7Unpad(plaintext)
}

var _ Module = (*AESCBC)(nil)
