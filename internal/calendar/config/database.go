package config

import (
	"fmt"
	"net/url"
	"time"

	"calbuddy/pkg/db/postgres"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host            string        `yaml:"host" env:"CALENDAR_POSTGRES_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"CALENDAR_POSTGRES_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"CALENDAR_POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"CALENDAR_POSTGRES_PASSWORD" env-default:"postgres"`
	Database        string        `yaml:"database" env:"CALENDAR_POSTGRES_DB" env-default:"calendar"`
	SSLMode         string        `yaml:"ssl_mode" env:"CALENDAR_POSTGRES_SSL_MODE" env-default:"disable"`
	MinConn         int           `yaml:"min_conn" env:"CALENDAR_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn         int           `yaml:"max_conn" env:"CALENDAR_POSTGRES_MAX_CONN" env-default:"10"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"CALENDAR_POSTGRES_MAX_CONN_LIFETIME" env-default:"1h"`
	MigrationsDir   string        `yaml:"migrations_dir" env:"CALENDAR_POSTGRES_MIGRATIONS_DIR" env-default:""`
}

// GetDSN возвращает строку подключения pgx.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL подключения для golang-migrate.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

// PoolOptions переводит настройки в параметры пула.
func (p *PostgresConfig) PoolOptions() postgres.PoolOptions {
	return postgres.PoolOptions{
		MinConns:        int32(p.MinConn),
		MaxConns:        int32(p.MaxConn),
		MaxConnLifetime: p.MaxConnLifetime,
	}
}
