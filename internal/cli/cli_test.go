package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("MEDIA_ROOT", t.TempDir())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateAndWaitForDB(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied.")

	out, err = run(t, "wait-for-db", "--interval", "10ms", "--timeout", "5s")
	require.NoError(t, err)
	assert.Contains(t, out, "Database available!")
}

func TestCreateSuperuser(t *testing.T) {
	sqliteEnv(t)

	out, err := run(t, "createsuperuser", "--email", "Admin@Example.com", "--password", "test123")
	require.NoError(t, err)
	assert.Contains(t, out, "Superuser admin@example.com created.")

	_, err = run(t, "createsuperuser", "--email", "admin@example.com", "--password", "test123")
	assert.Error(t, err, "email is taken")

	_, err = run(t, "createsuperuser", "--email", "short@example.com", "--password", "pw")
	assert.Error(t, err)

	_, err = run(t, "createsuperuser", "--password", "test123")
	assert.Error(t, err, "email flag is required")
}

func TestInvalidConfig(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := run(t, "migrate")
	assert.Error(t, err)
}
