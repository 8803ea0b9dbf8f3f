package config

import (
	"net"
	"strconv"
	"time"
)

// RedisConfig - настройки Redis для кэша цветов, state OAuth и отозванных сессий.
type RedisConfig struct {
	Host           string        `yaml:"host" env:"CALENDAR_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"CALENDAR_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"CALENDAR_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"CALENDAR_REDIS_DB" env-default:"0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CALENDAR_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"CALENDAR_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"CALENDAR_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize       int           `yaml:"pool_size" env:"CALENDAR_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle        int           `yaml:"min_idle" env:"CALENDAR_REDIS_MIN_IDLE" env-default:"2"`
	DefaultTTL     time.Duration `yaml:"default_ttl" env:"CALENDAR_REDIS_DEFAULT_TTL" env-default:"15m"`
	ColorsTTL      time.Duration `yaml:"colors_ttl" env:"CALENDAR_REDIS_COLORS_TTL" env-default:"10m"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
