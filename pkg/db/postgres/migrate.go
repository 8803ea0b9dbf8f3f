package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"calbuddy/pkg/logger"
)

const (
	ErrCreateMigrationSource   = "failed to open migration source"
	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
	ErrRollbackMigrations      = "failed to roll back migrations"
	ErrReadVersion             = "failed to read schema version"
)

// MigrationStatus описывает состояние схемы.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Latest  uint
}

// UpToDate сообщает, применены ли все доступные миграции.
func (s MigrationStatus) UpToDate() bool {
	return !s.Dirty && s.Version == s.Latest
}

// MigrateDSN применяет миграции из sourceURL (например, file:///path).
func MigrateDSN(ctx context.Context, dsn, sourceURL string) error {
	log := logger.Log(ctx)

	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err), zap.String("source", sourceURL))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer m.Close()

	return up(ctx, m)
}

// MigrateFS применяет миграции, встроенные в бинарь.
func MigrateFS(ctx context.Context, dsn string, fsys fs.FS, dir string) error {
	m, err := newFSMigrate(ctx, dsn, fsys, dir)
	if err != nil {
		return err
	}
	defer m.Close()

	return up(ctx, m)
}

// RollbackFS откатывает steps последних миграций.
func RollbackFS(ctx context.Context, dsn string, fsys fs.FS, dir string, steps int) error {
	log := logger.Log(ctx)

	m, err := newFSMigrate(ctx, dsn, fsys, dir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrRollbackMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrRollbackMigrations, err)
	}

	log.Info(ctx, LogMigrationsRolled, zap.Int("steps", steps))
	return nil
}

// StatusFS сравнивает версию схемы с последней встроенной миграцией.
func StatusFS(ctx context.Context, dsn string, fsys fs.FS, dir string) (MigrationStatus, error) {
	var status MigrationStatus

	latest, err := latestVersion(fsys, dir)
	if err != nil {
		return status, err
	}
	status.Latest = latest

	m, err := newFSMigrate(ctx, dsn, fsys, dir)
	if err != nil {
		return status, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return status, fmt.Errorf("%s: %w", ErrReadVersion, err)
	}
	status.Version = version
	status.Dirty = dirty
	return status, nil
}

func newFSMigrate(ctx context.Context, dsn string, fsys fs.FS, dir string) (*migrate.Migrate, error) {
	log := logger.Log(ctx)

	src, err := iofs.New(fsys, dir)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationSource, zap.Error(err), zap.String("dir", dir))
		return nil, fmt.Errorf("%s: %w", ErrCreateMigrationSource, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		_ = src.Close()
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	return m, nil
}

func up(ctx context.Context, m *migrate.Migrate) error {
	log := logger.Log(ctx)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	log.Info(ctx, LogMigrationsApplied)
	return nil
}

// latestVersion проходит источник до последней версии.
func latestVersion(fsys fs.FS, dir string) (uint, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrCreateMigrationSource, err)
	}
	defer src.Close()

	version, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrReadVersion, err)
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			return version, nil
		}
		version = next
	}
}
