// Package config loads and saves kkb.yaml, the per-ledger settings file
// kept in the data directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kkb-dev/kkb/internal/logger"
	"github.com/kkb-dev/kkb/internal/model"
)

// FileName is the config file name inside the data directory.
const FileName = "kkb.yaml"

// Environment overrides.
const (
	EnvDataDir  = "KKB_DATA_DIR"
	EnvLogLevel = "KKB_LOG_LEVEL"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config represents the top-level kkb.yaml configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Log     LogConfig     `yaml:"log"`
	Git     GitConfig     `yaml:"git"`
}

// StorageConfig selects where the ledger snapshot lives. A relative Path
// is resolved against the data directory.
type StorageConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=file badger"`
	Path    string `yaml:"path" validate:"required"`
}

// LedgerConfig holds bookkeeping defaults.
type LedgerConfig struct {
	DefaultCurrency string `yaml:"default_currency" validate:"required,len=3,uppercase"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name" validate:"required_if=AutoCommit true"`
	AuthorEmail string `yaml:"author_email" validate:"omitempty,email"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "ledger.json",
		},
		Ledger: LedgerConfig{
			DefaultCurrency: model.DefaultCurrency,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "kkb",
			AuthorEmail: "kkb@kkb.local",
		},
	}
}

// Validate checks cfg against its field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Logger returns the logger settings.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// StoragePath returns the snapshot location resolved against dataDir.
func (c *Config) StoragePath(dataDir string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(dataDir, c.Storage.Path)
}

// Load reads a kkb.yaml file from disk. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDir loads kkb.yaml from dataDir, falling back to Default when the
// file does not exist. Environment overrides are applied last.
func LoadDir(dataDir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dataDir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Log.Level = lvl
	}
}

// LoadDotEnv loads dir/.env into the process environment if present.
// Variables already set win.
func LoadDotEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// DataDir returns the data directory: flag wins, then KKB_DATA_DIR, then
// the working directory.
func DataDir(flag string) string {
	if flag != "" {
		return flag
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	return "."
}
