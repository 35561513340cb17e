package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FieldKeySize is the raw AES-256 key length.
const FieldKeySize = 32

var (
	// ErrConfiguration means the field key is absent or unusable. It is not
	// retryable; callers should abort instead of storing plaintext.
	ErrConfiguration = errors.New("cryptox: field encryption key is not configured")

	// ErrCrypto covers malformed payloads, wrong keys and bad padding.
	ErrCrypto = errors.New("cryptox: field decryption failed")
)

// FieldCipher encrypts individual sensitive attributes with AES-256-CBC.
// Payloads are formatted as hex(iv) + ":" + hex(ciphertext).
type FieldCipher struct {
	key []byte
}

// NewFieldCipher parses a hex-encoded 32-byte key.
func NewFieldCipher(hexKey string) (*FieldCipher, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, ErrConfiguration
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: key is not valid hex", ErrConfiguration)
	}
	if len(key) != FieldKeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrConfiguration, FieldKeySize, len(key))
	}

	return &FieldCipher{key: key}, nil
}

// Encrypt seals plaintext under a fresh random IV.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if c == nil {
		return "", ErrConfiguration
	}
	return EncryptField(plaintext, c.key)
}

// Decrypt reverses Encrypt.
func (c *FieldCipher) Decrypt(payload string) (string, error) {
	if c == nil {
		return "", ErrConfiguration
	}
	return DecryptField(payload, c.key)
}

// EncryptField encrypts plaintext with a raw 32-byte key.
func EncryptField(plaintext string, key []byte) (string, error) {
	block, err := newFieldBlock(key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// DecryptField decrypts an "iv:ciphertext" payload produced by EncryptField.
func DecryptField(payload string, key []byte) (string, error) {
	block, err := newFieldBlock(key)
	if err != nil {
		return "", err
	}

	ivHex, ctHex, ok := strings.Cut(payload, ":")
	if !ok {
		return "", fmt.Errorf("%w: missing iv separator", ErrCrypto)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: invalid iv", ErrCrypto)
	}

	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", fmt.Errorf("%w: invalid ciphertext encoding", ErrCrypto)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not block aligned", ErrCrypto)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func newFieldBlock(key []byte) (cipher.Block, error) {
	if len(key) == 0 {
		return nil, ErrConfiguration
	}
	if len(key) != FieldKeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrConfiguration, FieldKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return block, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padding", ErrCrypto)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: invalid padding", ErrCrypto)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrCrypto)
		}
	}

	return data[:len(data)-n], nil
}
