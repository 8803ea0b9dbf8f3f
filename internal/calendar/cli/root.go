// Package cli реализует служебную утилиту calctl.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"calbuddy/pkg/logger"
)

// RootOptions - общие флаги всех команд.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand создает корневую команду calctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "calctl",
		Short:         "Calendar Buddy maintenance tool",
		Long:          "Generates encryption keys, manages database migrations and inspects encrypted values.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			log, err := logger.NewLogger(logger.Development, level)
			if err != nil {
				return err
			}
			logger.SetGlobalLogger(log)
			cmd.SetContext(logger.NewContext(commandContext(cmd), log))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewKeygenCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewEncryptCommand())
	cmd.AddCommand(NewDecryptCommand())

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
