package cli_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calbuddy/internal/calendar/cli"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestKeygen(t *testing.T) {
	first, err := run(t, "keygen")
	require.NoError(t, err)
	second, err := run(t, "keygen")
	require.NoError(t, err)

	assert.Len(t, first, 64)
	_, err = hex.DecodeString(first)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestEncryptDecrypt(t *testing.T) {
	t.Setenv(cli.EnvEncryptionKey, testKey)

	token, err := run(t, "encrypt", "Dentist at 3pm")
	require.NoError(t, err)
	assert.Contains(t, token, ":")

	text, err := run(t, "decrypt", token)
	require.NoError(t, err)
	assert.Equal(t, "Dentist at 3pm", text)

	legacy, err := run(t, "decrypt", "plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", legacy)
}

func TestCipherCommandsRequireKey(t *testing.T) {
	t.Setenv(cli.EnvEncryptionKey, "")

	_, err := run(t, "encrypt", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), cli.EnvEncryptionKey)

	t.Setenv(cli.EnvEncryptionKey, "short")
	_, err = run(t, "decrypt", "x")
	assert.Error(t, err)
}

func TestMigrateDownRejectsNonPositiveSteps(t *testing.T) {
	_, err := run(t, "migrate", "down", "--steps", "0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be positive")
}

func TestRootListsCommands(t *testing.T) {
	cmd := cli.NewRootCommand()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"keygen", "migrate", "encrypt", "decrypt"} {
		assert.True(t, names[want], want)
	}
}
