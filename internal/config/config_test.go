package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// chdir moves into an empty directory so no stray .env or securecheck.yaml
// from the developer's tree leaks into the test.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Driver != DriverMySQL {
		t.Errorf("Driver = %q, want %q", cfg.Driver, DriverMySQL)
	}
	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if cfg.Database != "Traffic_Stops" {
		t.Errorf("Database = %q, want Traffic_Stops", cfg.Database)
	}
	if cfg.Addr != ":8501" {
		t.Errorf("Addr = %q, want :8501", cfg.Addr)
	}
	if cfg.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.PageSize)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdir(t)

	yamlPath := filepath.Join(dir, "securecheck.yaml")
	content := "host: file-host\nuser: file-user\ndatabase: file-db\nport: 3307\n"
	if err := os.WriteFile(yamlPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SECURECHECK_USER", "env-user")
	t.Setenv("SECURECHECK_DATABASE", "env-db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database", "", "")
	flags.String("host", "", "")
	if err := flags.Parse([]string{"--database", "flag-db"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Source != yamlPath {
		t.Errorf("Source = %q, want %q", cfg.Source, yamlPath)
	}
	if cfg.Host != "file-host" {
		t.Errorf("Host = %q, want file-host (unset flag must not override)", cfg.Host)
	}
	if cfg.Port != 3307 {
		t.Errorf("Port = %d, want 3307", cfg.Port)
	}
	if cfg.User != "env-user" {
		t.Errorf("User = %q, want env-user", cfg.User)
	}
	if cfg.Database != "flag-db" {
		t.Errorf("Database = %q, want flag-db", cfg.Database)
	}
}

func TestLoad_ExplicitRelativeFile(t *testing.T) {
	dir := chdir(t)

	if err := os.WriteFile(filepath.Join(dir, "ledger.yaml"), []byte("driver: postgres\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("ledger.yaml", nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := filepath.Join(dir, "ledger.yaml")
	if cfg.Source != want {
		t.Errorf("Source = %q, want %q", cfg.Source, want)
	}
	if cfg.Driver != DriverPostgres {
		t.Errorf("Driver = %q, want %q", cfg.Driver, DriverPostgres)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SECURECHECK_PASSWORD=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load sets the variable for the whole process; register cleanup.
	t.Setenv("SECURECHECK_PASSWORD", "")
	os.Unsetenv("SECURECHECK_PASSWORD")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Password != "from-dotenv" {
		t.Errorf("Password = %q, want from-dotenv", cfg.Password)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	chdir(t)

	if _, err := Load("does-not-exist.yaml", nil); err == nil {
		t.Error("Load() should fail for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Driver: DriverMySQL, PageSize: 10}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"mysql ok", func(*Config) {}, false},
		{"postgres ok", func(c *Config) { c.Driver = DriverPostgres }, false},
		{"sqlite without path", func(c *Config) { c.Driver = DriverSQLite }, true},
		{"sqlite with path", func(c *Config) { c.Driver = DriverSQLite; c.Path = "ledger.db" }, false},
		{"unknown driver", func(c *Config) { c.Driver = "oracle" }, true},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
		{"bad page size", func(c *Config) { c.PageSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestStore(t *testing.T) {
	cfg := Config{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     5433,
		User:     "analyst",
		Password: "secret",
		Database: "ledger",
	}

	s := cfg.Store()
	if s.Driver != DriverPostgres || s.Host != "db" || s.Port != 5433 ||
		s.User != "analyst" || s.Password != "secret" || s.Database != "ledger" {
		t.Errorf("Store() = %+v", s)
	}
}
