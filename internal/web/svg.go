package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/j-veylop/securecheck-dashboard/internal/charts"
)

const (
	chartWidth  = 760
	chartHeight = 400
	pieSize     = 460
	barWidth    = 40
	barSpacing  = 16
	maxTicks    = 12
	maxLabelLen = 18
)

var errNothingToPlot = errors.New("nothing to plot")

// labelReplacer keeps markup out of labels, since the rendered SVG is
// inlined into the page as trusted HTML.
var labelReplacer = strings.NewReplacer("<", "", ">", "", "&", "and", `"`, "'")

// chartView is one chart ready for a page: inline SVG, a heatmap grid or a
// notice.
type chartView struct {
	Title   string
	SVG     template.HTML
	Heatmap *heatmapView
	Notice  string
}

type heatmapView struct {
	Cols []string
	Rows []heatmapRow
}

type heatmapRow struct {
	Label string
	Cells []heatmapCell
}

type heatmapCell struct {
	Value string
	Style template.CSS
}

// renderCharts converts chart specs for a page. A chart that fails to render
// becomes a notice and the failure is logged.
func renderCharts(specs []charts.Spec, log *slog.Logger) []chartView {
	views := make([]chartView, 0, len(specs))
	for _, spec := range specs {
		v, err := renderChart(spec)
		if err != nil {
			log.Warn("chart render failed", "error", err)
			v = chartView{Title: v.Title, Notice: "Chart unavailable: " + err.Error()}
		}
		views = append(views, v)
	}
	return views
}

func renderChart(spec charts.Spec) (chartView, error) {
	switch c := spec.(type) {
	case charts.Bar:
		svg, err := barSVG(c.Title, c.Labels, c.Values)
		return chartView{Title: c.Title, SVG: svg}, err

	case charts.Histogram:
		values := make([]float64, len(c.Counts))
		for i, n := range c.Counts {
			values[i] = float64(n)
		}
		svg, err := barSVG(c.Title, c.Labels, values)
		return chartView{Title: c.Title, SVG: svg}, err

	case charts.Pie:
		svg, err := pieSVG(c.Title, c.Labels, c.Values)
		return chartView{Title: c.Title, SVG: svg}, err

	case charts.Line:
		// A line needs two points for a range on the x axis.
		if len(c.Values) < 2 {
			svg, err := barSVG(c.Title, c.Labels, c.Values)
			return chartView{Title: c.Title, SVG: svg}, err
		}
		svg, err := lineSVG(c)
		return chartView{Title: c.Title, SVG: svg}, err

	case charts.Heatmap:
		return chartView{Title: c.Title, Heatmap: heatmap(c)}, nil

	case charts.Empty:
		return chartView{Notice: c.Message}, nil
	}
	return chartView{}, fmt.Errorf("unsupported chart %T", spec)
}

func render(fn func(chart.RendererProvider, io.Writer) error) (template.HTML, error) {
	var buf bytes.Buffer
	if err := fn(chart.SVG, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func cleanLabel(s string) string {
	s = labelReplacer.Replace(s)
	if r := []rune(s); len(r) > maxLabelLen {
		return string(r[:maxLabelLen-1]) + "…"
	}
	return s
}

// yRange anchors the value axis at zero. An all-zero series still gets a
// non-empty range.
func yRange(values []float64) *chart.ContinuousRange {
	top := charts.Max(values)
	if top <= 0 {
		top = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: top * 1.1}
}

func barSVG(title string, labels []string, values []float64) (template.HTML, error) {
	if len(values) == 0 {
		return "", errNothingToPlot
	}

	bars := make([]chart.Value, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = cleanLabel(labels[i])
		}
		bars[i] = chart.Value{Label: label, Value: v}
	}

	bc := chart.BarChart{
		Title:      cleanLabel(title),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Width:      max(chartWidth, len(bars)*(barWidth+barSpacing)+120),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis:      chart.YAxis{Range: yRange(values)},
		Bars:       bars,
	}
	return render(bc.Render)
}

func pieSVG(title string, labels []string, values []float64) (template.HTML, error) {
	total := charts.Sum(values)

	var slices []chart.Value
	for i, v := range values {
		if v <= 0 || i >= len(labels) {
			continue
		}
		slices = append(slices, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", cleanLabel(labels[i]), v/total*100),
			Value: v,
		})
	}
	if len(slices) == 0 {
		return "", errNothingToPlot
	}

	pc := chart.PieChart{
		Title:  cleanLabel(title),
		Width:  pieSize,
		Height: pieSize,
		Values: slices,
	}
	return render(pc.Render)
}

func lineSVG(l charts.Line) (template.HTML, error) {
	n := len(l.Values)
	step := (n + maxTicks - 1) / maxTicks

	xs := make([]float64, n)
	var ticks []chart.Tick
	for i := range xs {
		xs[i] = float64(i)
		if i%step == 0 && i < len(l.Labels) {
			ticks = append(ticks, chart.Tick{Value: xs[i], Label: cleanLabel(l.Labels[i])})
		}
	}

	c := chart.Chart{
		Title:      cleanLabel(l.Title),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 10}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis:      chart.XAxis{Name: cleanLabel(l.X), Ticks: ticks},
		YAxis:      chart.YAxis{Name: cleanLabel(l.Y), Range: yRange(l.Values)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    cleanLabel(l.Y),
				XValues: xs,
				YValues: l.Values,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    chart.ColorBlue,
				},
			},
		},
	}
	return render(c.Render)
}

// heatColor is the cell color at full intensity.
var heatColor = drawing.ColorFromHex("2563eb")

// heatmap lays the grid out as table cells shaded by their share of the
// largest value.
func heatmap(h charts.Heatmap) *heatmapView {
	top := 0.0
	for _, row := range h.Values {
		top = max(top, charts.Max(row))
	}

	view := &heatmapView{Cols: h.Cols}
	for i, label := range h.Rows {
		row := heatmapRow{Label: label}
		for j := range h.Cols {
			v := 0.0
			if i < len(h.Values) && j < len(h.Values[i]) {
				v = h.Values[i][j]
			}
			alpha := 0.0
			if top > 0 {
				alpha = v / top
			}
			row.Cells = append(row.Cells, heatmapCell{
				Value: formatNumber(v),
				Style: template.CSS(fmt.Sprintf("background-color: rgba(%d, %d, %d, %.2f)",
					heatColor.R, heatColor.G, heatColor.B, alpha)),
			})
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// formatNumber prints whole numbers without decimals.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
