// Package crypto реализует шифрование полей AES-256-CBC в формате ivHex:cipherHex.
package crypto

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"calbuddy/internal/calendar/ports/services"
	"calbuddy/pkg/logger"
)

// DecryptionErrorSentinel подставляется вместо значения, которое не удалось расшифровать.
const DecryptionErrorSentinel = "[Decryption Error]"

const (
	// KeySize - длина ключа AES-256 в байтах.
	KeySize = 32

	tokenSeparator = ":"

	msgDecryptFailed = "failed to decrypt value, returning sentinel"
	msgLegacyValue   = "value is not in ciphertext format, returning as is"
)

var (
	ErrInvalidKey       = errors.New("encryption key must be 64 hex characters (32 bytes)")
	ErrKeyNotConfigured = errors.New("encryption key is not configured")
	ErrRandomSource     = errors.New("failed to read random iv")
	errMalformedIV      = errors.New("iv must be 16 bytes")
	errMalformedBlocks  = errors.New("ciphertext is not a positive multiple of the block size")
	errInvalidPadding   = errors.New("invalid pkcs7 padding")
	errInvalidPlaintext = errors.New("decrypted value is not valid utf-8")
)

// AESCBC - шифр полей. Нулевое значение не имеет ключа и отказывает во всех операциях.
type AESCBC struct {
	block  cipher.Block
	random io.Reader
}

var _ services.Cipher = (*AESCBC)(nil)

// Option настраивает AESCBC.
type Option func(*AESCBC)

// WithRandom подменяет источник IV.
func WithRandom(r io.Reader) Option {
	return func(c *AESCBC) {
		c.random = r
	}
}

// NewAESCBC создает шифр из ключа в hex. Любой ключ, кроме 64 hex-символов, отклоняется.
func NewAESCBC(hexKey string, opts ...Option) (*AESCBC, error) {
	hexKey = strings.TrimSpace(hexKey)
	if len(hexKey) != hex.EncodedLen(KeySize) {
		return nil, ErrInvalidKey
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	return NewAESCBCFromKey(key, opts...)
}

// NewAESCBCFromKey создает шифр из сырого 32-байтного ключа.
func NewAESCBCFromKey(key []byte, opts ...Option) (*AESCBC, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	c := &AESCBC{block: block, random: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateKey возвращает новый случайный ключ в hex.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Encrypt шифрует plaintext со свежим IV.
func (c *AESCBC) Encrypt(_ context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	if c == nil || c.block == nil {
		return "", ErrKeyNotConfigured
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(c.random, iv); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRandomSource, err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + tokenSeparator + hex.EncodeToString(out), nil
}

// Decrypt расшифровывает токен. Строки не в формате ivHex:cipherHex считаются
// старыми незашифрованными данными.
func (c *AESCBC) Decrypt(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}
	if c == nil || c.block == nil {
		return "", ErrKeyNotConfigured
	}

	iv, data, ok := splitToken(token)
	if !ok {
		logger.Log(ctx).Debug(ctx, msgLegacyValue)
		return token, nil
	}

	plaintext, err := c.open(iv, data)
	if err != nil {
		logger.Log(ctx).Warn(ctx, msgDecryptFailed, zap.Error(err))
		return DecryptionErrorSentinel, nil
	}
	return plaintext, nil
}

func (c *AESCBC) open(iv, data []byte) (string, error) {
	if len(iv) != aes.BlockSize {
		return "", errMalformedIV
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", errMalformedBlocks
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(out, data)

	out, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", errInvalidPlaintext
	}
	return string(out), nil
}

// splitToken разбирает ivHex:cipherHex. ok=false, если строка не похожа на токен.
// Намеренно строже простой проверки числа частей: строка с одним двоеточием,
// но не hex в частях ("Meeting: 3pm"), считается открытым текстом старых записей,
// а не поврежденным токеном, и не дает [Decryption Error].
func splitToken(token string) (iv, data []byte, ok bool) {
	parts := strings.Split(token, tokenSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, false
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, nil, false
	}
	data, err = hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, false
	}
	return iv, data, true
}

func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, errInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, errInvalidPadding
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
