package membership

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvDatabaseURL overrides database.url when set.
const EnvDatabaseURL = "MEMBERSHIP_DATABASE_URL"

// reservedSeparatorChars are used to encode multi-value handles elsewhere.
const reservedSeparatorChars = ",|"

// Config is the static configuration, read once at startup.
type Config struct {
	Users       UsersConfig    `yaml:"users"`
	Groups      GroupsConfig   `yaml:"groups"`
	Sets        HandleConfig   `yaml:"sets"`
	Permissions HandleConfig   `yaml:"permissions"`
	Database    DatabaseConfig `yaml:"database"`
	Log         LogConfig      `yaml:"log"`

	// Transliteration adds to or overrides the built-in handle transliteration table.
	// Keys must be single characters.
	Transliteration map[string]string `yaml:"transliteration"`
}

// UsersConfig describes the host users table.
type UsersConfig struct {
	Avatar  AvatarConfig `yaml:"avatar"`
	PerPage int          `yaml:"per_page"`
	Table   string       `yaml:"table"`
}

// AvatarConfig is carried for hosts that render avatars; the library only stores it.
type AvatarConfig struct {
	Default string `yaml:"default"`
	Path    string `yaml:"path"`
}

// HandleConfig holds the handle separator and page size of an entity.
type HandleConfig struct {
	HandleSeparator string `yaml:"handle_separator"`
	PerPage         int    `yaml:"per_page"`
}

// GroupsConfig extends HandleConfig with the default group.
type GroupsConfig struct {
	HandleConfig `yaml:",inline"`

	// Default is the handle of the group new users join. Empty disables it.
	Default string `yaml:"default"`
}

// DatabaseConfig holds connection settings.
type DatabaseConfig struct {
	URL  string     `yaml:"url"`
	Pool PoolConfig `yaml:"pool"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	MaxOpenConnections    int           `yaml:"max_open_connections"`
	MaxIdleConnections    int           `yaml:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
	ConnectionMaxIdleTime time.Duration `yaml:"connection_max_idle_time"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultPoolConfig returns the pool settings used when none are configured.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConnections:    25,
		MaxIdleConnections:    5,
		ConnectionMaxLifetime: 30 * time.Minute,
		ConnectionMaxIdleTime: 5 * time.Minute,
	}
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Users: UsersConfig{
			Avatar: AvatarConfig{
				Default: "assets/img/misc/noavatar.png",
				Path:    "uploads/images/avatars",
			},
			PerPage: 10,
			Table:   "users",
		},
		Groups: GroupsConfig{
			HandleConfig: HandleConfig{HandleSeparator: "-", PerPage: 10},
		},
		Sets:        HandleConfig{HandleSeparator: ".", PerPage: 10},
		Permissions: HandleConfig{HandleSeparator: ".", PerPage: 10},
		Database:    DatabaseConfig{Pool: DefaultPoolConfig()},
		Log:         LogConfig{Level: "info"},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
// An empty path yields the defaults. The database URL may be overridden
// through MEMBERSHIP_DATABASE_URL.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Database.URL = v
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks separators, page sizes and transliteration keys.
func (c Config) Validate() error {
	separators := map[string]string{
		"groups.handle_separator":      c.Groups.HandleSeparator,
		"sets.handle_separator":        c.Sets.HandleSeparator,
		"permissions.handle_separator": c.Permissions.HandleSeparator,
	}
	for key, sep := range separators {
		if err := validateSeparator(sep); err != nil {
			return fmt.Errorf("%w (%s)", err, key)
		}
	}

	pages := map[string]int{
		"users.per_page":       c.Users.PerPage,
		"groups.per_page":      c.Groups.PerPage,
		"sets.per_page":        c.Sets.PerPage,
		"permissions.per_page": c.Permissions.PerPage,
	}
	for key, n := range pages {
		if n <= 0 {
			return NewError(ErrInvalidConfiguration, fmt.Sprintf("%s must be positive, got %d", key, n))
		}
	}

	if strings.TrimSpace(c.Users.Table) == "" {
		return NewError(ErrInvalidConfiguration, "users.table cannot be empty")
	}
	if !tableNamePattern.MatchString(c.Users.Table) {
		return NewError(ErrInvalidConfiguration, fmt.Sprintf("users.table %q is not a plain or schema-qualified identifier", c.Users.Table))
	}

	for k := range c.Transliteration {
		if len([]rune(k)) != 1 {
			return NewError(ErrInvalidConfiguration, fmt.Sprintf("transliteration key %q must be a single character", k))
		}
	}
	return nil
}

// tableNamePattern accepts "table" or "schema.table".
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func validateSeparator(sep string) error {
	if sep == "" {
		return NewError(ErrInvalidConfiguration, "handle separator cannot be empty")
	}
	if strings.ContainsAny(sep, reservedSeparatorChars) {
		return NewError(ErrInvalidConfiguration, fmt.Sprintf("handle separator %q uses a reserved character (, or |)", sep))
	}
	return nil
}
