package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calbuddy/internal/calendar/adapters/crypto"
)

// EnvEncryptionKey - переменная с ключом, которой пользуется сервис.
const EnvEncryptionKey = "ENCRYPTION_KEY"

var errNoKey = errors.New(EnvEncryptionKey + " is not set")

func cipherFromEnv() (*crypto.AESCBC, error) {
	key := os.Getenv(EnvEncryptionKey)
	if key == "" {
		return nil, errNoKey
	}
	return crypto.NewAESCBC(key)
}

// NewEncryptCommand шифрует значение так же, как сервис шифрует заметки.
func NewEncryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <text>",
		Short: "Encrypt text with ENCRYPTION_KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cipherFromEnv()
			if err != nil {
				return err
			}
			token, err := c.Encrypt(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}

// NewDecryptCommand расшифровывает сохраненное значение. Legacy текст выводится как есть.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <token>",
		Short: "Decrypt a stored value with ENCRYPTION_KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cipherFromEnv()
			if err != nil {
				return err
			}
			text, err := c.Decrypt(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
