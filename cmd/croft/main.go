// Package main implements the croft CLI: per-project context matching and
// component dependency coordination for isolated development environments.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crofthq/croft/internal/catalog"
	"github.com/crofthq/croft/internal/config"
	"github.com/crofthq/croft/internal/kv"
	"github.com/crofthq/croft/internal/logging"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "croft",
	Short: "Context matching and dependency coordination for dev environments",
	Long: `croft fingerprints project directories, matches them against learned
project contexts, and tracks component dependency relationships so that
concurrently developed components never introduce circular imports.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/croft/config.yaml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("croft %s (%s)\n", version, gitCommit))
	rootCmd.AddCommand(fingerprintCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(componentCmd)
}

// app bundles the wired engine components for one command invocation.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	store   kv.Store
	catalog *catalog.FSStore
}

// buildApp loads config and wires logging, the key/value store, and the
// context catalog.
func buildApp() (*app, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.NewFSStore(cfg.Catalog.Dir, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Watch {
		if err := cat.Watch(); err != nil {
			return nil, err
		}
	}

	return &app{cfg: cfg, log: logger, store: store, catalog: cat}, nil
}

func openStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		return kv.NewSQLiteStore(cfg.Store.SQLitePath)
	default:
		return kv.NewFileStore(cfg.Store.Dir)
	}
}

// close releases resources held by the app.
func (a *app) close() {
	a.catalog.Close()
	if closer, ok := a.store.(interface{ Close() error }); ok {
		closer.Close()
	}
	a.log.Sync()
}
