package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/charts"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

// Output formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}

func checkFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

type jsonResult struct {
	Label   string           `json:"label"`
	Columns []string         `json:"columns"`
	Rows    [][]models.Value `json:"rows"`
}

// renderResult prints an analysis result. NULL cells print blank.
func renderResult(w io.Writer, res *catalog.Result, format string) error {
	t := res.Table

	if format == FormatJSON {
		rows := t.Rows
		if rows == nil {
			rows = [][]models.Value{}
		}
		return writeJSON(w, jsonResult{Label: res.Entry.Label, Columns: t.Columns, Rows: rows})
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows {
		row := make(table.Row, len(t.Columns))
		for i := range row {
			if i < len(r) {
				row[i] = r[i].String()
			}
		}
		tw.AppendRow(row)
	}

	switch format {
	case FormatCSV:
		tw.RenderCSV()
	case FormatMarkdown:
		tw.RenderMarkdown()
	default:
		if t.Empty() {
			_, _ = fmt.Fprintln(w, charts.NoResults)
			return nil
		}
		tw.SetTitle(res.Entry.Label)
		tw.Render()
		_, _ = fmt.Fprintf(w, "(%d rows in %s)\n", t.Len(), res.Duration.Round(time.Millisecond))
	}
	return nil
}

type jsonEntry struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	SQL   string `json:"sql"`
}

// renderCatalog lists catalog entries with their 1-based positions.
func renderCatalog(w io.Writer, entries []catalog.Entry, format string) error {
	if format == FormatJSON {
		out := make([]jsonEntry, len(entries))
		for i, e := range entries {
			out[i] = jsonEntry{Index: i + 1, Label: e.Label, SQL: e.SQL}
		}
		return writeJSON(w, out)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Analysis"})
	for i, e := range entries {
		tw.AppendRow(table.Row{i + 1, e.Label})
	}

	switch format {
	case FormatCSV:
		tw.RenderCSV()
	case FormatMarkdown:
		tw.RenderMarkdown()
	default:
		tw.Render()
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
