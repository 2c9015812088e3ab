package db

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDriver is returned for a driver name the provider cannot open.
var ErrUnsupportedDriver = errors.New("unsupported driver")

// ConnectionError reports an unreachable store or rejected credentials.
// It is recoverable: callers show the message and continue with an empty table.
type ConnectionError struct {
	Driver string
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("failed to connect to %s store: %v", e.Driver, e.Err)
	}
	return fmt.Sprintf("failed to connect to %s store at %s: %v", e.Driver, e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a statement the store rejected or a result that could
// not be read.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err is or wraps a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsQueryError reports whether err is or wraps a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
