package config

import (
	"errors"
	"time"
)

const minSessionSecretLength = 16

// ErrSessionSecret - секрет подписи сессий слишком короткий.
var ErrSessionSecret = errors.New("COOKIE_KEY must be at least 16 characters")

// SessionConfig - параметры сессионной cookie и токена.
type SessionConfig struct {
	Secret     string        `yaml:"secret" env:"COOKIE_KEY" env-required:"true"`
	TTL        time.Duration `yaml:"ttl" env:"CALENDAR_SESSION_TTL" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env:"CALENDAR_SESSION_COOKIE" env-default:"calbuddy_session"`
	Secure     bool          `yaml:"secure" env:"CALENDAR_SESSION_SECURE" env-default:"true"`
	SameSite   string        `yaml:"same_site" env:"CALENDAR_SESSION_SAME_SITE" env-default:"None"`
	Issuer     string        `yaml:"issuer" env:"CALENDAR_SESSION_ISSUER" env-default:"calendar-buddy"`
}

// Validate проверяет длину секрета.
func (c *SessionConfig) Validate() error {
	if len(c.Secret) < minSessionSecretLength {
		return ErrSessionSecret
	}
	return nil
}
