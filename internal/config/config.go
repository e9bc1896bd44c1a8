// Package config loads server settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/serroba/notepad/internal/editor"
	"github.com/serroba/notepad/internal/history"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvAddr overrides the listen address from the file.
const EnvAddr = "NOTEPAD_ADDR"

// Errors returned by configuration operations.
var (
	// ErrInvalidConfig indicates a setting is out of range.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds the server settings.
type Config struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	LogLevel          string        `yaml:"logLevel"`

	// HistorySize is the number of undo steps kept per document.
	HistorySize int `yaml:"historySize"`

	// CheckpointEvery is the number of typed characters between undo steps.
	CheckpointEvery int `yaml:"checkpointEvery"`

	// StructuralKeys always start a new undo step.
	StructuralKeys []string `yaml:"structuralKeys"`

	// DraftThreshold is the number of undo steps between autosaved drafts.
	// Zero disables drafts.
	DraftThreshold int `yaml:"draftThreshold"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		LogLevel:          "info",
		HistorySize:       history.DefaultCapacity,
		CheckpointEvery:   editor.DefaultCheckpointEvery,
		StructuralKeys:    append([]string(nil), editor.DefaultStructuralKeys...),
		DraftThreshold:    20,
	}
}

// Load reads path over the defaults. A missing file is not an error.
// The NOTEPAD_ADDR environment variable wins over the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)

		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}

	if c.HistorySize <= 0 {
		return fmt.Errorf("%w: historySize must be positive, got %d", ErrInvalidConfig, c.HistorySize)
	}

	if c.CheckpointEvery <= 0 {
		return fmt.Errorf("%w: checkpointEvery must be positive, got %d", ErrInvalidConfig, c.CheckpointEvery)
	}

	if c.DraftThreshold < 0 {
		return fmt.Errorf("%w: draftThreshold must not be negative", ErrInvalidConfig)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return level, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return level, nil
}
