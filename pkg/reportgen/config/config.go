// Package config loads reportgen settings from YAML or TOML files with
// REPORTGEN_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REPORTGEN"

// ErrInvalidConfig indicates a configuration that failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Workbook  WorkbookConfig  `yaml:"workbook" toml:"workbook"`
	Templates TemplatesConfig `yaml:"templates" toml:"templates"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string   `yaml:"addr" toml:"addr"`
	ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout"`
}

// DatabaseConfig selects the SQL driver and connection string.
// Driver is one of sqlite, sqlite3 or postgres.
type DatabaseConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	DSN    string `yaml:"dsn" toml:"dsn"`
}

// WorkbookConfig enables xlsx-backed queries, addressed with the "xlsx:"
// query prefix.
type WorkbookConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// TemplatesConfig locates report templates.
type TemplatesConfig struct {
	Dir       string `yaml:"dir" toml:"dir"`
	Extension string `yaml:"extension" toml:"extension"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

// Duration wraps time.Duration for text decoding ("30s", "2m").
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:reports.db?mode=ro",
		},
		Templates: TemplatesConfig{
			Dir:       "templates",
			Extension: ".thtml",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// The format follows the extension: .yaml, .yml or .toml. An empty path
// loads defaults and overrides only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(os.ExpandEnv(path))
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		case ".toml":
			_, err = toml.Decode(string(data), cfg)
		default:
			return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
		}
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.Database.DSN = os.ExpandEnv(cfg.Database.DSN)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from REPORTGEN_<SECTION>_<KEY> variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_ADDR":         &c.Server.Addr,
		"DATABASE_DRIVER":     &c.Database.Driver,
		"DATABASE_DSN":        &c.Database.DSN,
		"WORKBOOK_PATH":       &c.Workbook.Path,
		"TEMPLATES_DIR":       &c.Templates.Dir,
		"TEMPLATES_EXTENSION": &c.Templates.Extension,
		"LOGGING_LEVEL":       &c.Logging.Level,
	}
	for key, field := range strs {
		if v, ok := lookup(EnvPrefix + "_" + key); ok {
			*field = v
		}
	}

	durations := map[string]*Duration{
		"SERVER_READ_TIMEOUT":  &c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": &c.Server.WriteTimeout,
	}
	for key, field := range durations {
		if v, ok := lookup(EnvPrefix + "_" + key); ok {
			if err := field.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%w: %s_%s: %v", ErrInvalidConfig, EnvPrefix, key, err)
			}
		}
	}

	if v, ok := lookup(EnvPrefix + "_LOGGING_DEVELOPMENT"); ok {
		c.Logging.Development = v == "1" || strings.EqualFold(v, "true")
	}
	return nil
}

var knownDrivers = map[string]bool{
	"sqlite":   true,
	"sqlite3":  true,
	"postgres": true,
}

var knownLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	var problems []string
	if c.Database.Driver != "" && !knownDrivers[c.Database.Driver] {
		problems = append(problems, fmt.Sprintf("unknown database driver %q", c.Database.Driver))
	}
	if c.Database.Driver != "" && c.Database.DSN == "" {
		problems = append(problems, "database dsn is required")
	}
	if c.Logging.Level != "" && !knownLevels[strings.ToLower(c.Logging.Level)] {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}
	if c.Server.ReadTimeout.Duration < 0 || c.Server.WriteTimeout.Duration < 0 {
		problems = append(problems, "server timeouts must not be negative")
	}
	if c.Templates.Extension != "" && !strings.HasPrefix(c.Templates.Extension, ".") {
		problems = append(problems, "templates extension must start with '.'")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
