// Package db opens connections to the ledger store and executes queries.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	// pgx registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"

	"github.com/j-veylop/securecheck-dashboard/internal/config"
)

// Default ports per driver, used when the config leaves port at 0.
const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

// DefaultConnectTimeout bounds dialing and the initial ping.
const DefaultConnectTimeout = 5 * time.Second

// Opener opens a database handle. It matches sql.Open and exists so tests
// can hand back a sqlmock handle.
type Opener func(driverName, dsn string) (*sql.DB, error)

// Provider opens one connection to the configured store per call. There is
// no pool shared between calls; the caller closes what it receives.
type Provider struct {
	store   config.StoreConfig
	open    Opener
	timeout time.Duration
}

// ProviderOption customizes a Provider.
type ProviderOption func(*Provider)

// WithOpener replaces sql.Open.
func WithOpener(o Opener) ProviderOption {
	return func(p *Provider) { p.open = o }
}

// WithConnectTimeout overrides DefaultConnectTimeout.
func WithConnectTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) { p.timeout = d }
}

// NewProvider creates a provider for the given store.
func NewProvider(store config.StoreConfig, opts ...ProviderOption) *Provider {
	p := &Provider{
		store:   store,
		open:    sql.Open,
		timeout: DefaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Driver returns the configured driver name.
func (p *Provider) Driver() string {
	return p.store.Driver
}

// Target describes where the store lives, without credentials.
func (p *Provider) Target() string {
	switch p.store.Driver {
	case config.DriverSQLite:
		return p.store.Path
	default:
		addr := net.JoinHostPort(p.store.Host, strconv.Itoa(p.port()))
		if p.store.Database != "" {
			return addr + "/" + p.store.Database
		}
		return addr
	}
}

// Open returns a pinged handle limited to a single connection. Any failure
// is a *ConnectionError.
func (p *Provider) Open(ctx context.Context) (*sql.DB, error) {
	driverName, dsn, err := p.DSN()
	if err != nil {
		return nil, p.connErr(err)
	}

	sqlDB, err := p.open(driverName, dsn)
	if err != nil {
		return nil, p.connErr(fmt.Errorf("failed to open database: %w", err))
	}

	// One physical connection: the ping, pragmas and query share it.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, p.connErr(err)
	}

	if p.store.Driver == config.DriverSQLite {
		if err := configureSQLite(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, p.connErr(err)
		}
	}

	return sqlDB, nil
}

// DSN returns the database/sql driver name and data source name.
func (p *Provider) DSN() (string, string, error) {
	switch p.store.Driver {
	case config.DriverMySQL, "":
		return "mysql", p.mysqlDSN(), nil
	case config.DriverPostgres:
		return "pgx", p.postgresDSN(), nil
	case config.DriverSQLite:
		if p.store.Path == "" {
			return "", "", fmt.Errorf("%w: sqlite requires a path", ErrUnsupportedDriver)
		}
		return "sqlite", "file:" + p.store.Path + "?mode=ro", nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, p.store.Driver)
	}
}

func (p *Provider) port() int {
	if p.store.Port > 0 {
		return p.store.Port
	}
	if p.store.Driver == config.DriverPostgres {
		return defaultPostgresPort
	}
	return defaultMySQLPort
}

func (p *Provider) mysqlDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = p.store.User
	cfg.Passwd = p.store.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.store.Host, strconv.Itoa(p.port()))
	cfg.DBName = p.store.Database
	cfg.Timeout = p.timeout
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

func (p *Provider) postgresDSN() string {
	parts := []string{
		"host=" + p.store.Host,
		"port=" + strconv.Itoa(p.port()),
		"dbname=" + p.store.Database,
		"sslmode=disable",
		"connect_timeout=" + strconv.Itoa(max(1, int(p.timeout.Seconds()))),
	}
	if p.store.User != "" {
		parts = append(parts, "user="+p.store.User)
	}
	if p.store.Password != "" {
		parts = append(parts, "password="+p.store.Password)
	}
	return strings.Join(parts, " ")
}

func (p *Provider) connErr(err error) *ConnectionError {
	return &ConnectionError{Driver: p.Driver(), Target: p.Target(), Err: err}
}

// configureSQLite sets pragmas for read-only access to a ledger file.
func configureSQLite(ctx context.Context, sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA query_only=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}
