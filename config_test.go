package membership

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "users", cfg.Users.Table)
	assert.Equal(t, 10, cfg.Users.PerPage)
	assert.Equal(t, "-", cfg.Groups.HandleSeparator)
	assert.Equal(t, ".", cfg.Sets.HandleSeparator)
	assert.Equal(t, ".", cfg.Permissions.HandleSeparator)
	assert.Empty(t, cfg.Groups.Default)
	assert.Equal(t, 25, cfg.Database.Pool.MaxOpenConnections)
	assert.NoError(t, cfg.Validate())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "membership.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, `
users:
  table: accounts
  per_page: 25
groups:
  handle_separator: "_"
  per_page: 5
  default: members
permissions:
  handle_separator: ":"
  per_page: 50
database:
  url: postgres://localhost/membership
  pool:
    max_open_connections: 3
    connection_max_lifetime: 1m
log:
  level: debug
transliteration:
  "&": and
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "accounts", cfg.Users.Table)
	assert.Equal(t, 25, cfg.Users.PerPage)
	assert.Equal(t, "_", cfg.Groups.HandleSeparator)
	assert.Equal(t, "members", cfg.Groups.Default)
	assert.Equal(t, ":", cfg.Permissions.HandleSeparator)
	assert.Equal(t, ".", cfg.Sets.HandleSeparator, "unset values keep their default")
	assert.Equal(t, "postgres://localhost/membership", cfg.Database.URL)
	assert.Equal(t, 3, cfg.Database.Pool.MaxOpenConnections)
	assert.Equal(t, time.Minute, cfg.Database.Pool.ConnectionMaxLifetime)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "and", cfg.Transliteration["&"])
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Groups, cfg.Groups)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://env/membership")

	path := writeConfig(t, "database:\n  url: postgres://file/membership\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/membership", cfg.Database.URL)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "users: [not, a, map"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "groups:\n  handle_separator: \",\"\n"))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"pipe separator", func(c *Config) { c.Permissions.HandleSeparator = "|" }},
		{"empty separator", func(c *Config) { c.Sets.HandleSeparator = "" }},
		{"zero page size", func(c *Config) { c.Users.PerPage = 0 }},
		{"negative page size", func(c *Config) { c.Groups.PerPage = -1 }},
		{"empty users table", func(c *Config) { c.Users.Table = " " }},
		{"quoted users table", func(c *Config) { c.Users.Table = `users" (id` }},
		{"backslash users table", func(c *Config) { c.Users.Table = `users\x` }},
		{"three-part users table", func(c *Config) { c.Users.Table = "db.app.users" }},
		{"long transliteration key", func(c *Config) { c.Transliteration = map[string]string{"ae": "x"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
		})
	}
}
