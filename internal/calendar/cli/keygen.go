package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"calbuddy/internal/calendar/adapters/crypto"
)

// NewKeygenCommand создает команду генерации ENCRYPTION_KEY.
func NewKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a new random 256-bit ENCRYPTION_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.GenerateKey()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
}
