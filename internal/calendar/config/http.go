package config

import (
	"fmt"
	"time"
)

// HTTPConfig - настройки HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"CALENDAR_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"PORT" env-default:"5001"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"CALENDAR_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"CALENDAR_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"CALENDAR_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	BodyLimit    int           `yaml:"body_limit" env:"CALENDAR_HTTP_BODY_LIMIT" env-default:"1048576"`
	ClientURL    string        `yaml:"client_url" env:"CLIENT_URL" env-default:"http://localhost:5173"`
	TrustProxy   bool          `yaml:"trust_proxy" env:"CALENDAR_HTTP_TRUST_PROXY" env-default:"true"`
}

// GetAddress возвращает адрес для Listen.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
