package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/securecheck-dashboard/internal/charts"
)

func TestSpinner(t *testing.T) {
	s := NewSpinner("Running query")
	if s.Label() != "Running query" {
		t.Errorf("Label() = %q", s.Label())
	}

	s.SetLabel("Loading ledger")
	if !strings.Contains(ansi.Strip(s.View()), "Loading ledger") {
		t.Errorf("View() = %q, want the label", s.View())
	}

	if s.Tick() == nil {
		t.Error("Tick should return a command")
	}

	_, cmd := s.Update(s.spinner.Tick())
	if cmd == nil {
		t.Error("Update should keep ticking")
	}

	if _, cmd := s.Update(spinner.TickMsg{ID: 1 << 30}); cmd != nil {
		t.Error("ticks for another spinner should be ignored")
	}

	if out := s.Centered(40, 5); len(strings.Split(out, "\n")) != 5 {
		t.Errorf("Centered() should fill the height, got %q", out)
	}
}

func TestRenderBarChart(t *testing.T) {
	out := ansi.Strip(RenderBarChart([]float64{10, 5, 0}, []string{"Speeding", "DUI", "Seatbelt"}, 60))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}

	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Errorf("larger value should have the longer bar:\n%s", out)
	}
	if strings.Count(lines[2], "█") != 0 {
		t.Errorf("zero should have no bar: %q", lines[2])
	}
	if !strings.HasPrefix(lines[1], "     DUI │") {
		t.Errorf("labels should be right aligned: %q", lines[1])
	}
	if !strings.HasSuffix(lines[0], " 10") {
		t.Errorf("value should follow the bar: %q", lines[0])
	}

	if !strings.Contains(RenderBarChart(nil, nil, 60), "No data") {
		t.Error("empty input should say no data")
	}
}

func TestRenderLineChart(t *testing.T) {
	out := ansi.Strip(RenderLineChart([]float64{1, 3, 2, 5}, []string{"2020", "2021", "2022", "2023"}, 30, 5))
	if out == "" {
		t.Fatal("RenderLineChart returned empty")
	}
	last := strings.Split(out, "\n")
	axis := last[len(last)-1]
	if !strings.HasPrefix(axis, "2020") || !strings.HasSuffix(axis, "2023") {
		t.Errorf("axis labels = %q", axis)
	}

	if !strings.Contains(RenderLineChart(nil, nil, 30, 5), "No data") {
		t.Error("empty input should say no data")
	}
}

func TestRenderPie(t *testing.T) {
	out := ansi.Strip(RenderPie([]string{"M", "F"}, []float64{3, 1}, 50))
	for _, want := range []string{"M 3 (75.0%)", "F 1 (25.0%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderPie() missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(strings.Split(out, "\n")[0], "█"); n != 20 {
		t.Errorf("stacked bar width = %d, want 20", n)
	}

	if !strings.Contains(RenderPie([]string{"x"}, []float64{0}, 50), "No data") {
		t.Error("zero total should say no data")
	}
}

func TestRenderHeatmap(t *testing.T) {
	out := ansi.Strip(RenderHeatmap(
		[]string{"Mon", "Tue"},
		[]string{"0", "1"},
		[][]float64{{0, 4}, {1, 0}},
	))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got:\n%s", out)
	}
	if !strings.Contains(lines[1], "Mon") || !strings.Contains(lines[1], "█") {
		t.Errorf("max cell should be a full block: %q", lines[1])
	}
	if !strings.Contains(lines[2], "░") {
		t.Errorf("small non-zero cell should still be visible: %q", lines[2])
	}

	if !strings.Contains(RenderHeatmap(nil, nil, nil), "No data") {
		t.Error("empty grid should say no data")
	}
}

func TestRenderSpec(t *testing.T) {
	tests := []struct {
		name string
		spec charts.Spec
		want []string
	}{
		{
			name: "bar",
			spec: charts.Bar{Title: "Arrest Rate - top", X: "violation", Y: "arrest_rate", Labels: []string{"DUI"}, Values: []float64{66.67}},
			want: []string{"Arrest Rate - top", "arrest_rate by violation", "DUI", "66.67"},
		},
		{
			name: "histogram",
			spec: charts.Histogram{Title: "Drivers by age", Field: "driver_age", Labels: []string{"25"}, Counts: []int{2}},
			want: []string{"Drivers by age", "count by driver_age", "25"},
		},
		{
			name: "pie",
			spec: charts.Pie{Title: "Stops by gender", Labels: []string{"M"}, Values: []float64{1}},
			want: []string{"Stops by gender", "M 1 (100.0%)"},
		},
		{
			name: "line",
			spec: charts.Line{Title: "Stops per year", X: "year", Y: "stops", Labels: []string{"2020", "2021"}, Values: []float64{1, 2}},
			want: []string{"Stops per year", "stops by year", "2020"},
		},
		{
			name: "heatmap",
			spec: charts.Heatmap{Title: "Stops by hour", Rows: []string{"Mon"}, Cols: []string{"8"}, Values: [][]float64{{1}}},
			want: []string{"Stops by hour", "Mon"},
		},
		{
			name: "empty",
			spec: charts.Empty{Message: charts.NoResults},
			want: []string{charts.NoResults},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(RenderSpec(tt.spec, 80))
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("RenderSpec() missing %q:\n%s", w, out)
				}
			}
		})
	}

	if RenderSpec(nil, 80) != "" {
		t.Error("nil spec should render nothing")
	}
}

func TestRenderSpecs(t *testing.T) {
	out := ansi.Strip(RenderSpecs([]charts.Spec{
		charts.Empty{Message: "first"},
		nil,
		charts.Empty{Message: "second"},
	}, 80))
	if out != "first\n\nsecond" {
		t.Errorf("RenderSpecs() = %q", out)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{33.333, "33.33"},
		{0, "0"},
		{-2.5, "-2.50"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderLegend(t *testing.T) {
	out := ansi.Strip(RenderLegend([]LegendItem{{Label: "Arrest", Color: PieColors[0]}, {Label: "Ticket", Color: PieColors[1]}}))
	if out != "■ Arrest  ■ Ticket" {
		t.Errorf("RenderLegend() = %q", out)
	}
}
