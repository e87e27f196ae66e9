package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bankbook.yaml configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds the connection settings for the account store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql, sqlite3 or pgx
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Name     string `yaml:"name"` // database name, or file path for sqlite3
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	PoolSize int    `yaml:"pool_size"`
	PoolName string `yaml:"pool_name,omitempty"`
}

// Load reads a bankbook.yaml file from disk. A missing file is an error;
// callers that can run unbound skip store construction on it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new installation.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     3306,
			Name:     "bankbook",
			User:     "bankbook",
			PoolSize: 5,
			PoolName: "bankbook_pool",
		},
	}
}

// Validate checks that the configuration names a usable store.
func (c *Config) Validate() error {
	db := c.Database
	switch db.Driver {
	case "mysql", "pgx":
		var missing []string
		if db.Host == "" {
			missing = append(missing, "database.host")
		}
		if db.Name == "" {
			missing = append(missing, "database.name")
		}
		if db.User == "" {
			missing = append(missing, "database.user")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required config fields: %s", strings.Join(missing, ", "))
		}
	case "sqlite3":
		if db.Name == "" {
			return fmt.Errorf("missing required config field: database.name")
		}
	case "":
		return fmt.Errorf("missing required config field: database.driver")
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
	if db.PoolSize < 0 {
		return fmt.Errorf("database.pool_size must not be negative")
	}
	return nil
}

// DSN builds the driver-specific connection string.
func (db DatabaseConfig) DSN() string {
	switch db.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", db.User, db.Password, db.Host, db.Port, db.Name)
	case "pgx":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", db.User, db.Password, db.Host, db.Port, db.Name)
	case "sqlite3":
		return db.Name
	default:
		return ""
	}
}
