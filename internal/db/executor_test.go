package db

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
	"github.com/j-veylop/securecheck-dashboard/internal/testutil"
)

const topViolations = "SELECT violation, count(*) AS count FROM digital_ledger GROUP BY violation"

// mockExecutor wires an executor to a sqlmock handle and counts opens. With
// monitorPings the ping must be expected explicitly.
func mockExecutor(t *testing.T, monitorPings bool) (*Executor, sqlmock.Sqlmock, *int) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(monitorPings))
	require.NoError(t, err)

	opens := 0
	provider := NewProvider(config.StoreConfig{Driver: config.DriverMySQL, Host: "localhost"},
		WithOpener(func(driverName, _ string) (*sql.DB, error) {
			opens++
			assert.Equal(t, "mysql", driverName)
			return sqlDB, nil
		}))

	return NewExecutor(provider), mock, &opens
}

func TestExecutor_Execute(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	testutil.UseTestLogger(t)

	exec, mock, _ := mockExecutor(t, false)
	mock.ExpectQuery(regexp.QuoteMeta(topViolations)).WillReturnRows(
		sqlmock.NewRows([]string{"violation", "count"}).
			AddRow("Speeding", int64(5)).
			AddRow("DUI", int64(2)),
	)
	mock.ExpectClose()

	table, err := exec.Execute(context.Background(), topViolations)
	require.NoError(t, err)

	assert.Equal(t, []string{"violation", "count"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, models.String("Speeding"), table.Rows[0][0])
	assert.Equal(t, models.Int(5), table.Rows[0][1])
	assert.NoError(t, mock.ExpectationsWereMet(), "connection must be released")
}

func TestExecutor_ReleasesOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
	}{
		{
			name: "statement rejected",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnError(errors.New("Table 'digital_ledger' doesn't exist"))
			},
		},
		{
			name: "row iteration error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT").WillReturnRows(
					sqlmock.NewRows([]string{"violation"}).
						AddRow("Speeding").
						AddRow("DUI").
						RowError(1, errors.New("connection reset")),
				)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
			testutil.UseTestLogger(t)

			exec, mock, _ := mockExecutor(t, false)
			tt.setupMock(mock)
			mock.ExpectClose()

			table, err := exec.Execute(context.Background(), topViolations)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, IsQueryError(err), "want QueryError, got %T", err)
			assert.False(t, IsConnectionError(err))
			assert.NoError(t, mock.ExpectationsWereMet(), "connection must be released")
		})
	}
}

func TestExecutor_UnreachableStore(t *testing.T) {
	testutil.UseTestLogger(t)

	provider := NewProvider(config.StoreConfig{Driver: config.DriverMySQL, Host: "db.invalid", Database: "Traffic_Stops"},
		WithOpener(func(string, string) (*sql.DB, error) {
			return nil, errors.New("dial tcp: no such host")
		}))

	table, err := NewExecutor(provider).Execute(context.Background(), topViolations)

	require.Error(t, err)
	require.NotNil(t, table, "unreachable store yields an empty table")
	assert.True(t, table.Empty())
	assert.Empty(t, table.Columns)

	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "mysql", ce.Driver)
	assert.Contains(t, ce.Error(), "db.invalid:3306/Traffic_Stops")
	assert.NotContains(t, ce.Error(), "password")
}

func TestExecutor_PingFailureClosesHandle(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	testutil.UseTestLogger(t)

	exec, mock, _ := mockExecutor(t, true)
	mock.ExpectPing().WillReturnError(errors.New("access denied for user 'root'"))
	mock.ExpectClose()

	table, err := exec.Execute(context.Background(), topViolations)
	assert.True(t, IsConnectionError(err))
	assert.True(t, table.Empty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_FreshConnectionPerCall(t *testing.T) {
	testutil.UseTestLogger(t)

	first, mock1, _ := sqlmock.New()
	second, mock2, _ := sqlmock.New()
	handles := []*sql.DB{first, second}

	opens := 0
	provider := NewProvider(config.StoreConfig{Driver: config.DriverMySQL},
		WithOpener(func(string, string) (*sql.DB, error) {
			h := handles[opens]
			opens++
			return h, nil
		}))
	exec := NewExecutor(provider)

	for _, mock := range []sqlmock.Sqlmock{mock1, mock2} {
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(1)))
		mock.ExpectClose()
	}

	for range 2 {
		_, err := exec.Execute(context.Background(), "SELECT 1 AS n")
		require.NoError(t, err)
	}

	assert.Equal(t, 2, opens)
	assert.NoError(t, mock1.ExpectationsWereMet())
	assert.NoError(t, mock2.ExpectationsWereMet())
}

func TestExecutor_ColumnTransformAndTypes(t *testing.T) {
	testutil.UseTestLogger(t)

	exec, mock, _ := mockExecutor(t, false)
	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("stop_time").OfType("TIME", []byte("")),
		sqlmock.NewColumn("arrest_rate").OfType("DECIMAL", []byte("")),
		sqlmock.NewColumn("total").OfType("BIGINT", []byte("")),
		sqlmock.NewColumn("country_name").OfType("VARCHAR", []byte("")),
	).AddRow([]byte("14:30:00extra"), []byte("33.33"), []byte("12"), []byte("Canada")).
		AddRow(nil, nil, nil, nil)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	mock.ExpectClose()

	truncate := func(v any) any {
		if b, ok := v.([]byte); ok {
			return string(b[:8])
		}
		return v
	}

	table, err := exec.Execute(context.Background(), "SELECT * FROM digital_ledger",
		WithColumnTransform("stop_time", truncate))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, models.String("14:30:00"), table.Rows[0][0])
	assert.Equal(t, models.Float(33.33), table.Rows[0][1])
	assert.Equal(t, models.Int(12), table.Rows[0][2])
	assert.Equal(t, models.String("Canada"), table.Rows[0][3])
	for _, cell := range table.Rows[1] {
		assert.True(t, cell.IsNull())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_SQLiteLedger(t *testing.T) {
	testutil.UseTestLogger(t)

	path := testutil.SeedLedger(t, testutil.SampleRecords())
	exec := NewExecutor(NewProvider(config.StoreConfig{Driver: config.DriverSQLite, Path: path}))

	table, err := exec.Execute(context.Background(),
		"SELECT violation, count(*) AS count FROM digital_ledger GROUP BY violation ORDER BY count DESC, violation")
	require.NoError(t, err)

	require.Equal(t, []string{"violation", "count"}, table.Columns)
	require.NotEmpty(t, table.Rows)
	assert.Equal(t, models.String("Speeding"), table.Rows[0][0])
	assert.Equal(t, models.Int(5), table.Rows[0][1])

	_, err = exec.Execute(context.Background(), "SELECT * FROM missing_table")
	assert.True(t, IsQueryError(err))

	_, err = exec.Execute(context.Background(), "DELETE FROM digital_ledger")
	assert.Error(t, err, "ledger is opened read-only")
}

func TestToValue(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		dbType string
		want   models.Value
	}{
		{"nil", nil, "", models.Null()},
		{"int64", int64(7), "", models.Int(7)},
		{"float64", 1.5, "", models.Float(1.5)},
		{"bool", true, "", models.Bool(true)},
		{"decimal bytes", []byte("12.50"), "DECIMAL", models.Float(12.5)},
		{"int bytes", []byte("42"), "INT", models.Int(42)},
		{"unsigned bytes", []byte("42"), "UNSIGNED BIGINT", models.Int(42)},
		{"text bytes", []byte("Speeding"), "VARCHAR", models.String("Speeding")},
		{"bad decimal stays text", []byte("n/a"), "DECIMAL", models.String("n/a")},
		{"numeric string", "66.67", "NUMERIC", models.Float(66.67)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToValue(tt.in, tt.dbType))
		})
	}
}
