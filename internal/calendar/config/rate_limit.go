package config

import (
	"errors"
	"time"
)

// ErrRateLimit - некорректные параметры ограничения частоты.
var ErrRateLimit = errors.New("rate limit burst must be positive when rate is set")

// RateLimitConfig - ограничение запросов на один IP. MaxClients 0 снимает предел числа клиентов.
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"CALENDAR_RATE_LIMIT_RPS" env-default:"20"`
	Burst             int           `yaml:"burst" env:"CALENDAR_RATE_LIMIT_BURST" env-default:"40"`
	IdleTTL           time.Duration `yaml:"idle_ttl" env:"CALENDAR_RATE_LIMIT_IDLE_TTL" env-default:"10m"`
	MaxClients        int           `yaml:"max_clients" env:"CALENDAR_RATE_LIMIT_MAX_CLIENTS" env-default:"100000"`
}

// Enabled сообщает, включено ли ограничение.
func (c *RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}

// Validate проверяет согласованность параметров.
func (c *RateLimitConfig) Validate() error {
	if c.Enabled() && c.Burst <= 0 {
		return ErrRateLimit
	}
	return nil
}
