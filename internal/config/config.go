// Package config provides configuration loading for croft.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crofthq/croft/internal/logging"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the root configuration for croft.
type Config struct {
	Catalog CatalogConfig   `koanf:"catalog"`
	Store   StoreConfig     `koanf:"store"`
	Logging *logging.Config `koanf:"logging"`
}

// CatalogConfig locates the context catalog.
type CatalogConfig struct {
	// Dir holds one JSON document per known project context.
	Dir string `koanf:"dir"`

	// Watch enables filesystem watching of the catalog directory so the
	// in-memory listing cache tracks external edits.
	Watch bool `koanf:"watch"`
}

// StoreConfig selects the key/value backend for the dependency graph and
// component records.
type StoreConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `koanf:"backend"`

	// Dir is the root directory for the file backend.
	Dir string `koanf:"dir"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`
}

// NewDefaultConfig returns config with defaults rooted under
// ~/.config/croft.
func NewDefaultConfig() *Config {
	base := defaultBaseDir()
	return &Config{
		Catalog: CatalogConfig{
			Dir:   filepath.Join(base, "contexts"),
			Watch: false,
		},
		Store: StoreConfig{
			Backend:    BackendFile,
			Dir:        filepath.Join(base, "store"),
			SQLitePath: filepath.Join(base, "croft.db"),
		},
		Logging: logging.NewDefaultConfig(),
	}
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".croft")
	}
	return filepath.Join(home, ".config", "croft")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Catalog.Dir == "" {
		return fmt.Errorf("catalog.dir cannot be empty")
	}
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("store.dir cannot be empty for file backend")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path cannot be empty for sqlite backend")
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Store.Backend)
	}
	if c.Logging == nil {
		return fmt.Errorf("logging config cannot be nil")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config invalid: %w", err)
	}
	return nil
}
