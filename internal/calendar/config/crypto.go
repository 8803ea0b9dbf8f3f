package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrEncryptionKey - ключ шифрования не задан или имеет неверный формат.
var ErrEncryptionKey = errors.New("ENCRYPTION_KEY must be 64 hex characters")

// CryptoConfig содержит ключ шифрования заметок.
type CryptoConfig struct {
	EncryptionKey string `yaml:"encryption_key" env:"ENCRYPTION_KEY" env-required:"true"`
}

// Validate проверяет формат ключа до старта сервиса.
// Пробелы по краям отбрасываются так же, как в шифре.
func (c *CryptoConfig) Validate() error {
	key := strings.TrimSpace(c.EncryptionKey)
	if len(key) != 64 {
		return fmt.Errorf("%w: got %d characters", ErrEncryptionKey, len(key))
	}
	if _, err := hex.DecodeString(key); err != nil {
		return fmt.Errorf("%w: %w", ErrEncryptionKey, err)
	}
	return nil
}
