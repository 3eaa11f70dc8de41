package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full service configuration.
type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	I18n     I18n     `yaml:"i18n"`
	Search   Search   `yaml:"search"`
}

type HTTP struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	GinMode         string        `yaml:"gin_mode"`
}

// Database selects the record store backend.
// URL is used by the postgres driver, SQLitePath by the sqlite driver.
type Database struct {
	Driver      string `yaml:"driver"`
	URL         string `yaml:"url"`
	SQLitePath  string `yaml:"sqlite_path"`
	AutoMigrate bool   `yaml:"auto_migrate"`
	MaxConns    int32  `yaml:"max_conns"`
	MinConns    int32  `yaml:"min_conns"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type I18n struct {
	DefaultLang string `yaml:"default_lang"`
}

type Search struct {
	Threshold float64 `yaml:"threshold"`
}

// Default returns a configuration usable without any file or environment:
// a local SQLite file, Polish messages and the 0.6 similarity threshold.
func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			GinMode:         "release",
		},
		Database: Database{
			Driver:      DriverSQLite,
			SQLitePath:  "./animals.db",
			AutoMigrate: true,
			MaxConns:    25,
			MinConns:    5,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		I18n: I18n{
			DefaultLang: "pl",
		},
		Search: Search{
			Threshold: 0.6,
		},
	}
}

// Load builds the configuration with the precedence
// defaults -> config file -> .env -> environment variables.
// A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	configFile := os.Getenv("ANIMALS_CONFIG_FILE")
	if configFile == "" {
		configFile = "animals.yaml"
	}
	if err := cfg.LoadFile(configFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// .env never overrides variables already set in the process environment.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a YAML file over the current values.
func (c *Config) LoadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

// ApplyEnv overrides values from environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
		// A DSN without an explicit driver means Postgres, as before.
		if os.Getenv("ANIMALS_DB_DRIVER") == "" {
			c.Database.Driver = DriverPostgres
		}
	}
	if v := os.Getenv("ANIMALS_DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("ANIMALS_SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("ANIMALS_DB_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ANIMALS_DB_AUTO_MIGRATE: %w", err)
		}
		c.Database.AutoMigrate = b
	}
	if v := os.Getenv("ANIMALS_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("ANIMALS_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ANIMALS_SHUTDOWN_TIMEOUT: %w", err)
		}
		c.HTTP.ShutdownTimeout = d
	}
	if v := os.Getenv("ANIMALS_CORS_ORIGINS"); v != "" {
		c.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		c.HTTP.GinMode = v
	}
	if v := os.Getenv("ANIMALS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ANIMALS_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("ANIMALS_DEFAULT_LANG"); v != "" {
		c.I18n.DefaultLang = v
	}
	if v := os.Getenv("ANIMALS_SEARCH_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ANIMALS_SEARCH_THRESHOLD: %w", err)
		}
		c.Search.Threshold = f
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL not set")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("sqlite path not set")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Search.Threshold <= 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search threshold must be in (0, 1], got %v", c.Search.Threshold)
	}
	if c.HTTP.Addr == "" {
		return errors.New("http address not set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
