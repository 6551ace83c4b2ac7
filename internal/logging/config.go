package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level emitted ("trace", "debug", "info", ...).
	Level string `koanf:"level" json:"level"`

	// Format selects the encoder: "json" or "console".
	Format string `koanf:"format" json:"format"`

	// OutputPaths are zap sink URLs ("stderr", "stdout", or file paths).
	OutputPaths []string `koanf:"output_paths" json:"output_paths"`

	// Caller controls caller annotation on log entries.
	Caller CallerConfig `koanf:"caller" json:"caller"`

	// Fields are constant fields attached to every entry.
	Fields map[string]string `koanf:"fields" json:"fields"`
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled" json:"enabled"`
	Skip    int  `koanf:"skip" json:"skip"`
}

// NewDefaultConfig returns config with production-ready defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stderr"},
		Caller: CallerConfig{
			Enabled: false,
			Skip:    1,
		},
		Fields: map[string]string{
			"service": "croft",
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if _, err := LevelFromString(c.Level); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	if len(c.OutputPaths) == 0 {
		return fmt.Errorf("at least one output path must be configured")
	}
	return nil
}

// zapLevel returns the parsed level; Validate must have passed.
func (c *Config) zapLevel() zapcore.Level {
	l, err := LevelFromString(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
