package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.NotEmpty(t, cfg.Catalog.Dir)
	assert.NotEmpty(t, cfg.Store.Dir)
	assert.NotNil(t, cfg.Logging)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:   "sqlite backend",
			mutate: func(c *Config) { c.Store.Backend = BackendSQLite },
		},
		{
			name:    "empty catalog dir",
			mutate:  func(c *Config) { c.Catalog.Dir = "" },
			wantErr: "catalog.dir",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Store.Backend = "redis" },
			wantErr: "store.backend",
		},
		{
			name: "file backend without dir",
			mutate: func(c *Config) {
				c.Store.Backend = BackendFile
				c.Store.Dir = ""
			},
			wantErr: "store.dir",
		},
		{
			name: "sqlite backend without path",
			mutate: func(c *Config) {
				c.Store.Backend = BackendSQLite
				c.Store.SQLitePath = ""
			},
			wantErr: "store.sqlite_path",
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "logging config invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
