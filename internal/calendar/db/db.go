// Package db готовит базу календаря: миграции и пул соединений.
package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"calbuddy/internal/calendar/config"
	"calbuddy/migrations"
	"calbuddy/pkg/db/postgres"
	"calbuddy/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing calendar database"
	LogDBInitialized     = "calendar database initialized successfully"
	LogMigrationStarting = "starting database migrations for calendar service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply calendar database migrations"
	ErrDBConnection = "failed to connect to calendar database"
	ErrGetPath      = "failed to get path"
)

// DB представляет соединение с базой данных календаря.
type DB struct {
	database *postgres.Database
}

// New применяет миграции и открывает пул. Без MigrationsDir используются встроенные миграции.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	if err := Migrate(ctx, cfg); err != nil {
		return nil, err
	}

	database, err := postgres.New(ctx, cfg.GetDSN(), cfg.PoolOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

// Migrate применяет миграции из MigrationsDir или встроенные.
func Migrate(ctx context.Context, cfg *config.PostgresConfig) error {
	log := logger.Log(ctx)

	if cfg.MigrationsDir == "" {
		log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", "embedded"))
		if err := postgres.MigrateFS(ctx, cfg.GetConnectionURL(), migrations.FS, migrations.Dir); err != nil {
			return fmt.Errorf("%s: %w", ErrDBMigrations, err)
		}
		return nil
	}

	sourceURL, err := fileSourceURL(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", ErrDBMigrations, ErrGetPath, err)
	}

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", sourceURL))
	if err := postgres.MigrateDSN(ctx, cfg.GetConnectionURL(), sourceURL); err != nil {
		return fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}
	return nil
}

func fileSourceURL(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return "file://" + dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
