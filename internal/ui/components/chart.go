// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/securecheck-dashboard/internal/charts"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/styles"
)

// PieColors cycles through the slices of a pie.
var PieColors = []lipgloss.Color{
	lipgloss.Color("#5FAFFF"),
	lipgloss.Color("#FF5F87"),
	lipgloss.Color("#04B575"),
	lipgloss.Color("#FF8C00"),
	lipgloss.Color("#AF87FF"),
}

// HeatmapBlocks are Unicode block characters for heatmaps (low to high intensity).
var HeatmapBlocks = []rune{'·', '░', '▒', '▓', '█'}

// RenderSpec draws one chart description in the given width.
func RenderSpec(spec charts.Spec, width int) string {
	switch s := spec.(type) {
	case charts.Bar:
		return titled(s.Title, s.Y+" by "+s.X, RenderBarChart(s.Values, s.Labels, width))
	case charts.Histogram:
		values := make([]float64, len(s.Counts))
		for i, c := range s.Counts {
			values[i] = float64(c)
		}
		return titled(s.Title, "count by "+s.Field, RenderBarChart(values, s.Labels, width))
	case charts.Pie:
		return titled(s.Title, "", RenderPie(s.Labels, s.Values, width))
	case charts.Line:
		return titled(s.Title, s.Y+" by "+s.X, RenderLineChart(s.Values, s.Labels, width-12, 8))
	case charts.Heatmap:
		return titled(s.Title, "", RenderHeatmap(s.Rows, s.Cols, s.Values))
	case charts.Empty:
		return styles.WarningTextStyle.Render(s.Message)
	}
	return ""
}

// RenderSpecs draws several charts stacked vertically.
func RenderSpecs(specs []charts.Spec, width int) string {
	parts := make([]string, 0, len(specs))
	for _, s := range specs {
		if out := RenderSpec(s, width); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n")
}

func titled(title, subtitle, body string) string {
	lines := []string{styles.CardTitleStyle.UnsetMarginBottom().Render(title)}
	if subtitle != "" {
		lines = append(lines, styles.HelpStyle.Render(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(lines, body)...)
}

// RenderLineChart creates a single-series ASCII line chart. The first and
// last labels are printed under the axis.
func RenderLineChart(data []float64, labels []string, width, height int) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	width = max(width, 20)
	height = max(height, 3)

	graph := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
	)

	if len(labels) > 0 {
		first, last := labels[0], labels[len(labels)-1]
		gap := max(lipgloss.Width(graph)-lipgloss.Width(first)-lipgloss.Width(last), 1)
		graph += "\n" + styles.HelpStyle.Render(first+strings.Repeat(" ", gap)+last)
	}

	return graph
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int) string {
	if len(values) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	maxVal := charts.Max(values)
	if maxVal <= 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		padded := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label

		barLen := max(int(v/maxVal*float64(barWidth)), 0)
		bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("█", barLen))

		lines = append(lines, padded+" │"+bar+" "+FormatValue(v))
	}

	return strings.Join(lines, "\n")
}

// RenderPie shows each slice as its share of the whole.
func RenderPie(labels []string, values []float64, width int) string {
	total := charts.Sum(values)
	if total <= 0 {
		return styles.HelpStyle.Render("No data available")
	}

	barWidth := max(width-30, 10)
	items := make([]LegendItem, 0, len(labels))
	var stacked strings.Builder
	used := 0

	for i, v := range values {
		color := PieColors[i%len(PieColors)]
		share := v / total
		n := int(math.Round(share * float64(barWidth)))
		if i == len(values)-1 {
			n = barWidth - used
		}
		n = max(n, 0)
		used += n

		stacked.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n)))

		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		items = append(items, LegendItem{
			Label: fmt.Sprintf("%s %s (%.1f%%)", label, FormatValue(v), share*100),
			Color: color,
		})
	}

	return stacked.String() + "\n" + RenderLegend(items)
}

// RenderHeatmap draws a grid of counts, one row per line.
func RenderHeatmap(rows, cols []string, values [][]float64) string {
	if len(rows) == 0 || len(cols) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	maxVal := 0.0
	for _, row := range values {
		maxVal = max(maxVal, charts.Max(row))
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	rowWidth := 0
	for _, r := range rows {
		rowWidth = max(rowWidth, lipgloss.Width(r))
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowWidth+1))
	for _, c := range cols {
		fmt.Fprintf(&b, "%3s", c)
	}

	for i, r := range rows {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", rowWidth-lipgloss.Width(r)) + r + " ")
		for j := range cols {
			v := 0.0
			if i < len(values) && j < len(values[i]) {
				v = values[i][j]
			}
			b.WriteString("  ")
			b.WriteString(heatCell(v, maxVal))
		}
	}

	return b.String()
}

func heatCell(v, maxVal float64) string {
	intensity := int(v / maxVal * float64(len(HeatmapBlocks)-1))
	intensity = min(max(intensity, 0), len(HeatmapBlocks)-1)
	if v > 0 && intensity == 0 {
		intensity = 1
	}

	var style lipgloss.Style
	switch intensity {
	case 0:
		style = lipgloss.NewStyle().Foreground(styles.Subtle)
	case 1, 2:
		style = lipgloss.NewStyle().Foreground(styles.Success)
	case 3:
		style = lipgloss.NewStyle().Foreground(styles.Warning)
	default:
		style = lipgloss.NewStyle().Foreground(styles.Error)
	}
	return style.Render(string(HeatmapBlocks[intensity]))
}

// FormatValue prints whole numbers without decimals and rates with two.
func FormatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
