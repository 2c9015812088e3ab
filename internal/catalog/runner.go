package catalog

import (
	"context"
	"time"

	"github.com/j-veylop/securecheck-dashboard/internal/charts"
	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/ledger"
	"github.com/j-veylop/securecheck-dashboard/internal/logger"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

// Querier runs statements against the ledger store. *db.Executor
// satisfies it.
type Querier interface {
	ledger.Querier
	Driver() string
}

// Result is one analysis run.
type Result struct {
	Entry    Entry
	Table    *models.ResultTable
	Charts   []charts.Spec
	Duration time.Duration
}

// Runner executes catalog entries.
type Runner struct {
	q Querier
}

// NewRunner creates a runner over q.
func NewRunner(q Querier) *Runner {
	return &Runner{q: q}
}

// Run executes the entry with the given label. MySQL stores run the SQL
// template; other stores load the ledger and evaluate in process, since the
// templates use MySQL functions.
//
// When the store is unreachable the result holds an empty table and the
// connection error is returned alongside it.
func (r *Runner) Run(ctx context.Context, label string) (*Result, error) {
	entry, err := Lookup(label)
	if err != nil {
		return nil, err
	}
	return r.RunEntry(ctx, entry)
}

// RunEntry executes an entry already resolved from the catalog.
func (r *Runner) RunEntry(ctx context.Context, entry Entry) (*Result, error) {
	start := time.Now()

	table, err := r.table(ctx, entry)
	if table == nil {
		return nil, err
	}

	logger.Info("analysis run",
		"label", entry.Label,
		"rows", table.Len(),
		"duration", time.Since(start),
	)

	return &Result{
		Entry:    entry,
		Table:    table,
		Charts:   charts.Dispatch(table, entry.Label),
		Duration: time.Since(start),
	}, err
}

func (r *Runner) table(ctx context.Context, entry Entry) (*models.ResultTable, error) {
	switch r.q.Driver() {
	case config.DriverMySQL, "":
		return r.q.Execute(ctx, entry.SQL)
	default:
		l, err := ledger.Load(ctx, r.q)
		if l == nil {
			return nil, err
		}
		if err != nil {
			return l.Table, err
		}
		return entry.Eval(l.Records), nil
	}
}
