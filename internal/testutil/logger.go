// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"log/slog"
	"testing"

	"github.com/j-veylop/securecheck-dashboard/internal/logger"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// UseTestLogger routes the global logger to t.Log for the duration of the test.
func UseTestLogger(t testing.TB) {
	t.Helper()
	original := logger.Logger
	logger.Logger = NewTestLogger(t)
	t.Cleanup(func() { logger.Logger = original })
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
