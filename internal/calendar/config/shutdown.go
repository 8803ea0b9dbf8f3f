package config

import "time"

// ShutdownConfig - время на корректную остановку в секундах.
type ShutdownConfig struct {
	Timeout int `yaml:"timeout" env:"CALENDAR_GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10"`
}

// GetTimeout возвращает таймаут остановки.
func (c *ShutdownConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
