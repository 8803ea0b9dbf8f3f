package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calbuddy/internal/calendar/config"
	"calbuddy/internal/calendar/db"
	"calbuddy/migrations"
	pkgconfig "calbuddy/pkg/config"
	"calbuddy/pkg/db/postgres"
)

var errInvalidSteps = errors.New("steps must be positive")

// migrateConfig читает только секцию postgres, секреты сервиса не нужны.
type migrateConfig struct {
	Postgres config.PostgresConfig `yaml:"postgres"`
}

func loadPostgres(cmd *cobra.Command) (*config.PostgresConfig, error) {
	cfg, err := pkgconfig.Load[migrateConfig](commandContext(cmd), "calctl", os.Getenv(config.EnvConfigPath))
	if err != nil {
		return nil, err
	}
	return &cfg.Postgres, nil
}

// NewMigrateCommand создает группу команд миграций.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the calendar database schema",
	}

	cmd.AddCommand(newMigrateUpCommand())
	cmd.AddCommand(newMigrateDownCommand())
	cmd.AddCommand(newMigrateStatusCommand())

	return cmd
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadPostgres(cmd)
			if err != nil {
				return err
			}
			if err := db.Migrate(commandContext(cmd), cfg); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return err
		},
	}
}

func newMigrateDownCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps <= 0 {
				return errInvalidSteps
			}
			cfg, err := loadPostgres(cmd)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			if err := postgres.RollbackFS(ctx, cfg.GetConnectionURL(), migrations.FS, migrations.Dir, steps); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return err
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}

func newMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare the schema version with the embedded migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadPostgres(cmd)
			if err != nil {
				return err
			}
			status, err := postgres.StatusFS(commandContext(cmd), cfg.GetConnectionURL(), migrations.FS, migrations.Dir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "version=%d latest=%d dirty=%t up_to_date=%t\n",
				status.Version, status.Latest, status.Dirty, status.UpToDate())
			return err
		},
	}
}
