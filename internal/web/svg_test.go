package web

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/securecheck-dashboard/internal/charts"
	"github.com/j-veylop/securecheck-dashboard/internal/testutil"
)

func TestRenderChart(t *testing.T) {
	tests := []struct {
		name    string
		spec    charts.Spec
		wantSVG bool
	}{
		{
			name:    "bar",
			spec:    charts.Bar{Title: "Visualization of counts", Labels: []string{"CD456", "EF789"}, Values: []float64{3, 1}},
			wantSVG: true,
		},
		{
			name:    "bar with only zeros",
			spec:    charts.Bar{Title: "zeros", Labels: []string{"a", "b"}, Values: []float64{0, 0}},
			wantSVG: true,
		},
		{
			name:    "histogram",
			spec:    charts.Histogram{Title: "Distribution of Stop Outcomes", Labels: []string{"Ticket", "Arrest"}, Counts: []int{3, 4}},
			wantSVG: true,
		},
		{
			name:    "pie",
			spec:    charts.Pie{Title: "Driver Gender Distribution", Labels: []string{"M", "F"}, Values: []float64{6, 4}},
			wantSVG: true,
		},
		{
			name:    "line",
			spec:    charts.Line{Title: "Traffic Stops Over Time", Labels: []string{"2020-01", "2020-02", "2021-03"}, Values: []float64{3, 3, 2}},
			wantSVG: true,
		},
		{
			name:    "single point line",
			spec:    charts.Line{Title: "one month", Labels: []string{"2020-01"}, Values: []float64{3}},
			wantSVG: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := renderChart(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSVG, strings.Contains(string(v.SVG), "<svg"))
			assert.Empty(t, v.Notice)
		})
	}
}

func TestRenderChart_Empty(t *testing.T) {
	v, err := renderChart(charts.Empty{Message: charts.NoResults})
	require.NoError(t, err)
	assert.Equal(t, charts.NoResults, v.Notice)
	assert.Empty(t, v.SVG)
}

func TestRenderChart_NothingToPlot(t *testing.T) {
	_, err := renderChart(charts.Pie{Title: "empty", Labels: []string{"M"}, Values: []float64{0}})
	assert.True(t, errors.Is(err, errNothingToPlot))

	_, err = renderChart(charts.Bar{Title: "empty"})
	assert.True(t, errors.Is(err, errNothingToPlot))
}

func TestRenderCharts_FailureBecomesNotice(t *testing.T) {
	views := renderCharts([]charts.Spec{
		charts.Pie{Title: "empty", Labels: []string{"M"}, Values: []float64{0}},
		charts.Empty{Message: charts.NoResults},
	}, testutil.NewTestLogger(t))

	require.Len(t, views, 2)
	assert.Equal(t, "empty", views[0].Title)
	assert.Contains(t, views[0].Notice, "Chart unavailable")
	assert.Equal(t, charts.NoResults, views[1].Notice)
}

func TestHeatmap(t *testing.T) {
	v := heatmap(charts.Heatmap{
		Title:  "Heatmap of Stops by Hour and Day",
		Rows:   []string{"Monday", "Tuesday"},
		Cols:   []string{"08", "23"},
		Values: [][]float64{{2, 0}, {1}},
	})

	require.Len(t, v.Rows, 2)
	assert.Equal(t, []string{"08", "23"}, v.Cols)
	assert.Equal(t, "Monday", v.Rows[0].Label)

	require.Len(t, v.Rows[1].Cells, 2, "short rows are padded with zeros")
	assert.Equal(t, "2", v.Rows[0].Cells[0].Value)
	assert.Equal(t, "0", v.Rows[1].Cells[1].Value)
	assert.Contains(t, string(v.Rows[0].Cells[0].Style), "1.00)")
	assert.Contains(t, string(v.Rows[1].Cells[0].Style), "0.50)")
	assert.Contains(t, string(v.Rows[0].Cells[1].Style), "0.00)")
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "30+ Min", cleanLabel("30+ Min"))
	assert.Equal(t, "bscript", cleanLabel("<b>script"))
	assert.Equal(t, "Fish and Chips", cleanLabel("Fish & Chips"))

	long := cleanLabel("Driver demographic[Age,Gender,Race] by country")
	assert.Equal(t, maxLabelLen, len([]rune(long)))
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", formatNumber(3))
	assert.Equal(t, "0.25", formatNumber(0.25))
}
