package charts

import (
	"slices"
	"strings"

	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

// countColumns are the names (compared lower-cased) that mark a count column.
var countColumns = []string{"count", "tot_count", "counts"}

// Dispatch picks a chart for a catalog result by column names, first match
// wins:
//
//  1. no rows: Empty
//  2. a count, tot_count or counts column: bar of the first column against it
//  3. an arrest_rate column: bar of the first column against arrest_rate
//  4. more than one column: bar of the first column against the second
//
// A single column result gets no chart.
func Dispatch(t *models.ResultTable, label string) []Spec {
	if t.Empty() {
		return []Spec{Empty{Message: NoResults}}
	}
	if len(t.Columns) == 0 {
		return nil
	}

	x := t.Columns[0]

	for _, c := range t.Columns {
		if slices.Contains(countColumns, strings.ToLower(c)) {
			return []Spec{bar(t, "Visualization of "+label, x, c)}
		}
	}

	if t.Has("arrest_rate") {
		return []Spec{bar(t, "Arrest Rate - "+label, x, "arrest_rate")}
	}

	if len(t.Columns) > 1 {
		return []Spec{bar(t, "Visualization of "+label, x, t.Columns[1])}
	}

	return nil
}

func bar(t *models.ResultTable, title, x, y string) Bar {
	return Bar{
		Title:  title,
		X:      x,
		Y:      y,
		Labels: labels(t.Column(x)),
		Values: values(t.Column(y)),
	}
}

func labels(cells []models.Value) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c.IsNull() {
			out[i] = "NULL"
			continue
		}
		out[i] = c.String()
	}
	return out
}

// values converts cells to floats; anything non-numeric plots as zero.
func values(cells []models.Value) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		if f, ok := c.Float(); ok {
			out[i] = f
		}
	}
	return out
}
