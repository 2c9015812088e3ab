// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Supported store drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// EnvPrefix is the prefix for environment overrides, e.g. SECURECHECK_HOST.
const EnvPrefix = "SECURECHECK_"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// StoreConfig identifies the ledger store. It is injected into the
// connection provider; nothing reads credentials from globals.
type StoreConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Path     string
}

// Config holds the application configuration.
type Config struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
	Path     string `koanf:"path"`

	Addr          string `koanf:"addr"`
	SessionSecret string `koanf:"session_secret"`
	IntroImage    string `koanf:"intro_image"`
	PageSize      int    `koanf:"page_size"`

	Watch  bool `koanf:"watch"`
	Notify bool `koanf:"notify"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	LogFile   string `koanf:"log_file"`

	// Source is the config file that was read, if any.
	Source string `koanf:"-"`
}

// Default values
const (
	defaultDriver   = DriverMySQL
	defaultHost     = "localhost"
	defaultUser     = "root"
	defaultDatabase = "Traffic_Stops"
	defaultAddr     = ":8501"
	defaultPageSize = 100
)

func defaults() map[string]any {
	return map[string]any{
		"driver":     defaultDriver,
		"host":       defaultHost,
		"port":       0,
		"user":       defaultUser,
		"database":   defaultDatabase,
		"addr":       defaultAddr,
		"page_size":  defaultPageSize,
		"watch":      false,
		"notify":     false,
		"log_level":  "info",
		"log_format": "text",
		"log_file":   filepath.Join(Dir(), "securecheck.log"),
	}
}

// Store returns the store portion of the configuration.
func (c *Config) Store() StoreConfig {
	return StoreConfig{
		Driver:   c.Driver,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		Path:     c.Path,
	}
}

// Validate checks option combinations that would only fail later at connect time.
func (c *Config) Validate() error {
	drivers := []string{DriverMySQL, DriverPostgres, DriverSQLite}
	if !slices.Contains(drivers, c.Driver) {
		return fmt.Errorf("%w: unknown driver %q (want one of %s)",
			ErrInvalidConfig, c.Driver, strings.Join(drivers, ", "))
	}
	if c.Driver == DriverSQLite && c.Path == "" {
		return fmt.Errorf("%w: sqlite driver requires path", ErrInvalidConfig)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page_size must be positive", ErrInvalidConfig)
	}
	return nil
}

// Load reads configuration with precedence flags > env > config file > defaults.
// .env files are loaded into the process environment first so their
// SECURECHECK_* entries take part in the env layer.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	loadDotEnv()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	source := findConfigFile(cfgFile)
	if source != "" {
		if err := k.Load(file.Provider(source), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", source, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Dir returns the per-user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "securecheck")
}

// findConfigFile returns the explicit path, or the first securecheck.yaml/yml
// found in the working directory or the config dir. The result is absolute.
func findConfigFile(explicit string) string {
	if explicit != "" {
		if abs, err := filepath.Abs(explicit); err == nil {
			return abs
		}
		return explicit
	}

	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	dirs = append(dirs, Dir())

	for _, dir := range dirs {
		for _, name := range []string{"securecheck.yaml", "securecheck.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// loadDotEnv loads the first .env file found. Variables already present in
// the environment win.
func loadDotEnv() {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	cwd, err := os.Getwd()
	if err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "securecheck", ".env"))
	}

	// Parent directories (useful for development)
	if cwd != "" {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}
