package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION", filepath.Join(t.TempDir(), "cli.db"))
}

func execute(t *testing.T, c *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	require.NoError(t, c.Execute(), out.String())
	return out.String()
}

func TestMigrateStatus(t *testing.T) {
	setEnv(t)

	out := execute(t, MigrateCmd(), "up")
	assert.Contains(t, out, "schema version: 2")

	out = execute(t, MigrateCmd(), "down")
	assert.Contains(t, out, "schema version: 1")

	out = execute(t, MigrateCmd(), "status")
	assert.Contains(t, out, "schema version: 1")
}

func TestUserCommands(t *testing.T) {
	setEnv(t)

	out := execute(t, UserCmd(), "create", "--email", "Root@Example.com", "--password", "secret-pass", "--role", "admin", "--verified")
	assert.Contains(t, out, "created root@example.com")
	assert.Contains(t, out, "role=admin verified=true")

	out = execute(t, UserCmd(), "role", "root@example.com", "user")
	assert.Contains(t, out, "root@example.com is now user")

	out = execute(t, UserCmd(), "show", "root@example.com")
	assert.Contains(t, out, "role:      user")
	assert.Contains(t, out, "password:  true")
	assert.NotContains(t, out, "pending:")
}

func TestUserRole_Unknown(t *testing.T) {
	setEnv(t)
	execute(t, UserCmd(), "create", "--email", "ada@example.com", "--password", "secret-pass")

	c := UserCmd()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"role", "ada@example.com", "superuser"})
	assert.Error(t, c.Execute())
}

func TestTokensPrune(t *testing.T) {
	setEnv(t)

	out := execute(t, TokensCmd(), "prune", "--older-than", "1h")
	assert.Contains(t, out, "removed 0 tokens")
}
