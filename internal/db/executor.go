package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/j-veylop/securecheck-dashboard/internal/logger"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

// Connector hands out a fresh handle per call.
type Connector interface {
	Open(ctx context.Context) (*sql.DB, error)
	Driver() string
}

// Transform rewrites a raw driver value before it becomes a cell.
type Transform func(any) any

// ExecOption customizes a single Execute call.
type ExecOption func(*execOptions)

type execOptions struct {
	transforms map[string]Transform
}

// WithColumnTransform applies fn to every raw value of the named column.
func WithColumnTransform(column string, fn Transform) ExecOption {
	return func(o *execOptions) {
		if o.transforms == nil {
			o.transforms = make(map[string]Transform)
		}
		o.transforms[column] = fn
	}
}

// Executor runs statements against the ledger store. Every call opens its
// own connection and releases it before returning, on every path.
type Executor struct {
	conn Connector
}

// NewExecutor creates an executor.
func NewExecutor(conn Connector) *Executor {
	return &Executor{conn: conn}
}

// Driver returns the driver of the underlying connector.
func (e *Executor) Driver() string {
	return e.conn.Driver()
}

// Execute runs query and materializes the full result.
//
// If the store cannot be reached it returns an empty table together with a
// *ConnectionError; callers report the error and carry on with the table.
// A rejected statement or unreadable result returns a nil table and a
// *QueryError.
func (e *Executor) Execute(ctx context.Context, query string, opts ...ExecOption) (*models.ResultTable, error) {
	var o execOptions
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()

	sqlDB, err := e.conn.Open(ctx)
	if err != nil {
		var ce *ConnectionError
		if !errors.As(err, &ce) {
			ce = &ConnectionError{Driver: e.conn.Driver(), Err: err}
		}
		logger.Warn("ledger store unreachable", "driver", ce.Driver, "target", ce.Target, "error", ce.Err)
		return models.EmptyTable(), ce
	}
	defer release(sqlDB)

	table, err := readTable(ctx, sqlDB, query, o.transforms)
	if err != nil {
		logger.Error("query failed", "error", err, "duration", time.Since(start))
		return nil, &QueryError{Query: query, Err: err}
	}

	logger.Debug("query executed", "rows", table.Len(), "duration", time.Since(start))
	return table, nil
}

func release(sqlDB *sql.DB) {
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to release connection", "error", err)
	}
}

func readTable(ctx context.Context, sqlDB *sql.DB, query string, transforms map[string]Transform) (*models.ResultTable, error) {
	rows, err := sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	typeNames := make([]string, len(columns))
	if colTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range colTypes {
			if i < len(typeNames) {
				typeNames[i] = strings.ToUpper(ct.DatabaseTypeName())
			}
		}
	}

	table := models.NewResultTable(columns...)

	raw := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]models.Value, len(columns))
		for i, v := range raw {
			if fn, ok := transforms[columns[i]]; ok {
				v = fn(v)
			}
			row[i] = ToValue(v, typeNames[i])
		}
		table.Append(row...)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return table, nil
}

// ToValue converts a raw driver value into a cell. dbType is the upper-cased
// database type name of the column, used to decode textual numerics.
func ToValue(v any, dbType string) models.Value {
	switch x := v.(type) {
	case nil:
		return models.Null()
	case int64:
		return models.Int(x)
	case int32:
		return models.Int(int64(x))
	case int:
		return models.Int(int64(x))
	case uint64:
		return models.Int(int64(x))
	case float64:
		return models.Float(x)
	case float32:
		return models.Float(float64(x))
	case bool:
		return models.Bool(x)
	case []byte:
		return textValue(string(x), dbType)
	case string:
		return textValue(x, dbType)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return models.String(x.Format("2006-01-02"))
		}
		return models.String(x.Format("2006-01-02 15:04:05"))
	default:
		return models.String(fmt.Sprint(x))
	}
}

func textValue(s, dbType string) models.Value {
	switch {
	case isIntegerType(dbType):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return models.Int(i)
		}
	case isDecimalType(dbType):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return models.Float(f)
		}
	}
	return models.String(s)
}

func isIntegerType(t string) bool {
	t = strings.TrimPrefix(t, "UNSIGNED ")
	switch t {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT",
		"INT2", "INT4", "INT8", "YEAR":
		return true
	}
	return false
}

func isDecimalType(t string) bool {
	switch t {
	case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL", "FLOAT4", "FLOAT8":
		return true
	}
	return false
}
