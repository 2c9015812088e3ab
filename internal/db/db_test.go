package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/securecheck-dashboard/internal/config"
)

func TestProvider_DSN(t *testing.T) {
	tests := []struct {
		name       string
		store      config.StoreConfig
		wantDriver string
		wantDSN    string
		wantErr    error
	}{
		{
			name: "postgres with credentials",
			store: config.StoreConfig{
				Driver: config.DriverPostgres, Host: "db.example.com", Port: 5433,
				User: "analyst", Password: "secret", Database: "ledger",
			},
			wantDriver: "pgx",
			wantDSN:    "host=db.example.com port=5433 dbname=ledger sslmode=disable connect_timeout=5 user=analyst password=secret",
		},
		{
			name:       "postgres default port",
			store:      config.StoreConfig{Driver: config.DriverPostgres, Host: "localhost", Database: "ledger"},
			wantDriver: "pgx",
			wantDSN:    "host=localhost port=5432 dbname=ledger sslmode=disable connect_timeout=5",
		},
		{
			name:       "sqlite read only",
			store:      config.StoreConfig{Driver: config.DriverSQLite, Path: "/data/ledger.db"},
			wantDriver: "sqlite",
			wantDSN:    "file:/data/ledger.db?mode=ro",
		},
		{
			name:    "sqlite without path",
			store:   config.StoreConfig{Driver: config.DriverSQLite},
			wantErr: ErrUnsupportedDriver,
		},
		{
			name:    "unknown driver",
			store:   config.StoreConfig{Driver: "oracle"},
			wantErr: ErrUnsupportedDriver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driverName, dsn, err := NewProvider(tt.store).DSN()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driverName)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestProvider_MySQLDSN(t *testing.T) {
	p := NewProvider(config.StoreConfig{
		Driver: config.DriverMySQL, Host: "localhost", User: "root",
		Password: "pw", Database: "Traffic_Stops",
	}, WithConnectTimeout(2*time.Second))

	driverName, dsn, err := p.DSN()
	require.NoError(t, err)
	assert.Equal(t, "mysql", driverName)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", parsed.User)
	assert.Equal(t, "pw", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "localhost:3306", parsed.Addr)
	assert.Equal(t, "Traffic_Stops", parsed.DBName)
	assert.Equal(t, 2*time.Second, parsed.Timeout)
	assert.True(t, parsed.ParseTime)
}

func TestProvider_Target(t *testing.T) {
	assert.Equal(t, "localhost:3306/Traffic_Stops",
		NewProvider(config.StoreConfig{Driver: config.DriverMySQL, Host: "localhost", Database: "Traffic_Stops"}).Target())
	assert.Equal(t, "ledger.db",
		NewProvider(config.StoreConfig{Driver: config.DriverSQLite, Path: "ledger.db"}).Target())
}

func TestProvider_OpenMissingSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	_, err := NewProvider(config.StoreConfig{Driver: config.DriverSQLite, Path: path}).Open(context.Background())

	var ce *ConnectionError
	require.True(t, errors.As(err, &ce), "want ConnectionError, got %v", err)
	assert.Equal(t, config.DriverSQLite, ce.Driver)
	assert.Equal(t, path, ce.Target)
}
