// Package ledger loads the digital ledger and derives its summary figures.
package ledger

import (
	"context"
	"slices"
	"strings"

	"github.com/j-veylop/securecheck-dashboard/internal/db"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

// TableName is the ledger table in the configured database.
const TableName = "digital_ledger"

// FullTableQuery selects every ledger row.
const FullTableQuery = "SELECT * FROM " + TableName

// DefaultDurations are the stop duration buckets used when the ledger is empty.
var DefaultDurations = []string{"0-15 Min", "16-30 Min", "30+ Min"}

// Querier runs a statement. *db.Executor satisfies it.
type Querier interface {
	Execute(ctx context.Context, query string, opts ...db.ExecOption) (*models.ResultTable, error)
}

// Ledger is one full read of the table.
type Ledger struct {
	Table   *models.ResultTable
	Records []models.StopRecord
}

// Load reads the whole ledger with stop_time normalized. On a connection
// failure it returns an empty ledger alongside the error.
func Load(ctx context.Context, q Querier) (*Ledger, error) {
	table, err := q.Execute(ctx, FullTableQuery,
		db.WithColumnTransform(models.ColStopTime, NormalizeStopTime))
	if table == nil {
		return nil, err
	}
	return &Ledger{
		Table:   table,
		Records: models.RecordsFromTable(table),
	}, err
}

// Metrics are the headline counts shown on the key metrics view.
type Metrics struct {
	TotalStops  int `json:"total_stops"`
	Arrests     int `json:"arrests"`
	Warnings    int `json:"warnings"`
	DrugRelated int `json:"drug_related"`
}

// ComputeMetrics counts stops, arrests and warnings (by outcome text, case
// insensitive) and drug related stops.
func ComputeMetrics(records []models.StopRecord) Metrics {
	m := Metrics{TotalStops: len(records)}
	for _, r := range records {
		outcome := strings.ToLower(r.StopOutcome)
		if strings.Contains(outcome, "arrest") {
			m.Arrests++
		}
		if strings.Contains(outcome, "warning") {
			m.Warnings++
		}
		if r.DrugsRelatedStop {
			m.DrugRelated++
		}
	}
	return m
}

// Durations returns the distinct stop durations in first-seen order, falling
// back to DefaultDurations when none are present.
func Durations(records []models.StopRecord) []string {
	var out []string
	for _, r := range records {
		if r.StopDuration != "" && !slices.Contains(out, r.StopDuration) {
			out = append(out, r.StopDuration)
		}
	}
	if len(out) == 0 {
		return slices.Clone(DefaultDurations)
	}
	return out
}
