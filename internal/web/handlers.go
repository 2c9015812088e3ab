package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/charts"
	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/db"
	"github.com/j-veylop/securecheck-dashboard/internal/ledger"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
	"github.com/j-veylop/securecheck-dashboard/internal/predict"
	"github.com/j-veylop/securecheck-dashboard/internal/version"
)

// page is the data every template receives.
type page struct {
	Title  string
	Active string
	Error  string
	Data   any
}

func (s *Server) render(w http.ResponseWriter, status int, name string, p page) {
	tmpl, ok := s.pages[name]
	if !ok {
		http.Error(w, "unknown page "+name, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// loadError words a ledger failure for the banner.
func loadError(err error) string {
	if err == nil {
		return ""
	}
	return "Could not load the ledger: " + err.Error()
}

// =============================================================================
// Introduction
// =============================================================================

type introData struct {
	Features   []string
	IntroImage string
	Driver     string
	Location   string
	Database   string
	Reachable  bool
	Records    int
	Version    string
	Platform   string
}

var features = []string{
	"Terminal and browser dashboards over one ledger",
	"SQL store for every check post log",
	"One system shared by all check posts",
	"Crime and check post activity analysis",
	"Instant reports and charts",
}

func (s *Server) handleIntro(w http.ResponseWriter, r *http.Request) {
	store := s.app.Store()
	data := introData{
		Features:   features,
		IntroImage: s.app.IntroImage,
		Driver:     store.Driver,
		Reachable:  true,
		Version:    version.GetVersion(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if store.Driver == config.DriverSQLite {
		data.Location = store.Path
	} else {
		data.Location = fmt.Sprintf("%s:%d", store.Host, store.Port)
		data.Database = store.Database
	}

	l, err := s.svc.LoadLedger(r.Context())
	if db.IsConnectionError(err) {
		data.Reachable = false
	}
	if l != nil {
		data.Records = l.Table.Len()
	}

	s.render(w, http.StatusOK, "intro.html", page{
		Title:  "Introduction",
		Active: "intro",
		Error:  loadError(err),
		Data:   data,
	})
}

// =============================================================================
// Full table
// =============================================================================

type tableData struct {
	Columns []string
	Rows    [][]string
	Total   int
	Page    int
	Pages   int
	First   int
	Last    int
	Prev    int
	Next    int
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.LoadLedger(r.Context())

	data := tableData{Page: 1, Pages: 1}
	if l != nil {
		data = paginate(l.Table, r.URL.Query().Get("page"), s.app.PageSize)
	}

	s.render(w, http.StatusOK, "table.html", page{
		Title:  "Full Table",
		Active: "table",
		Error:  loadError(err),
		Data:   data,
	})
}

// paginate slices one page out of t. Out of range or malformed page numbers
// are clamped.
func paginate(t *models.ResultTable, raw string, size int) tableData {
	if size <= 0 {
		size = 100
	}
	total := t.Len()
	pages := max((total+size-1)/size, 1)

	n, err := strconv.Atoi(raw)
	if err != nil {
		n = 1
	}
	n = min(max(n, 1), pages)

	from := (n - 1) * size
	to := min(from+size, total)

	next := 0
	if n < pages {
		next = n + 1
	}

	return tableData{
		Columns: t.Columns,
		Rows:    cells(t.Slice(from, to)),
		Total:   total,
		Page:    n,
		Pages:   pages,
		First:   min(from+1, total),
		Last:    to,
		Prev:    n - 1,
		Next:    next,
	}
}

// cells turns a result table into display strings. NULL cells are blank.
func cells(t *models.ResultTable) [][]string {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(t.Columns))
		for j := range row {
			if j < len(r) {
				row[j] = r[j].String()
			}
		}
		rows[i] = row
	}
	return rows
}

// =============================================================================
// Key metrics
// =============================================================================

type metricsData struct {
	Metrics ledger.Metrics
	Charts  []chartView
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	l, err := s.svc.LoadLedger(r.Context())

	var data metricsData
	if l != nil {
		data.Metrics = ledger.ComputeMetrics(l.Records)
		data.Charts = renderCharts(charts.Dashboard(l.Table), s.logger)
	}

	s.render(w, http.StatusOK, "metrics.html", page{
		Title:  "Key Metrics",
		Active: "metrics",
		Error:  loadError(err),
		Data:   data,
	})
}

// =============================================================================
// Advanced insights
// =============================================================================

type insightsData struct {
	Labels   []string
	Selected string
	Result   *resultData
}

type resultData struct {
	Label    string
	Columns  []string
	Rows     [][]string
	Count    int
	Duration string
	Charts   []chartView
}

const sessionAnalysisKey = "analysis"

// handleInsights shows the picker. A POST, or a GET with a label parameter,
// runs the analysis; the last run label is remembered in the session and
// preselected next time.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessionStore.Get(r, sessionName)

	data := insightsData{Labels: catalog.Labels()}
	if remembered, ok := session.Values[sessionAnalysisKey].(string); ok {
		data.Selected = remembered
	}

	label := r.URL.Query().Get("label")
	if r.Method == http.MethodPost {
		label = r.PostFormValue("label")
	}
	if label == "" {
		s.render(w, http.StatusOK, "insights.html", page{Title: "Advanced Insights", Active: "insights", Data: data})
		return
	}

	p := page{Title: "Advanced Insights", Active: "insights"}
	status := http.StatusOK

	res, err := s.svc.RunAnalysis(r.Context(), label)
	switch {
	case errors.Is(err, catalog.ErrUnknownAnalysis):
		status = http.StatusNotFound
	case err == nil || res != nil:
		data.Selected = label
		session.Values[sessionAnalysisKey] = label
		if saveErr := session.Save(r, w); saveErr != nil {
			s.logger.Warn("failed to save session", "error", saveErr)
		}
	}
	if err != nil {
		p.Error = err.Error()
	}
	if res != nil {
		data.Result = &resultData{
			Label:    res.Entry.Label,
			Columns:  res.Table.Columns,
			Rows:     cells(res.Table),
			Count:    res.Table.Len(),
			Duration: res.Duration.Round(time.Millisecond).String(),
			Charts:   renderCharts(res.Charts, s.logger),
		}
	}

	p.Data = data
	s.render(w, status, "insights.html", p)
}

// =============================================================================
// Predict
// =============================================================================

type predictData struct {
	Fields     predict.Fields
	Genders    []string
	Violations []string
	Outcomes   []string
	Durations  []string
	MinAge     int
	MaxAge     int
	Errors     map[string]string
	Summary    string
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	durations := ledger.DefaultDurations
	if l, err := s.svc.LoadLedger(r.Context()); l != nil && err == nil {
		durations = ledger.Durations(l.Records)
	}
	now := s.now()

	in := predict.Default(durations, now)
	data := predictData{
		Fields: predict.Fields{
			Date:      in.Date.Format("2006-01-02"),
			Time:      in.TimeText,
			Gender:    in.Gender,
			Age:       strconv.Itoa(in.Age),
			Violation: in.Violation,
			Search:    "0",
			Outcome:   in.Outcome,
			Duration:  in.Duration,
			Drugs:     "0",
		},
		Genders:    predict.Genders,
		Violations: predict.Violations,
		Outcomes:   predict.Outcomes,
		Durations:  durations,
		MinAge:     predict.MinAge,
		MaxAge:     predict.MaxAge,
		Errors:     map[string]string{},
	}

	if r.Method == http.MethodPost {
		data.Fields = predict.Fields{
			Date:      r.PostFormValue("date"),
			Time:      r.PostFormValue("time"),
			Gender:    r.PostFormValue("gender"),
			Age:       r.PostFormValue("age"),
			Violation: r.PostFormValue("violation"),
			Search:    r.PostFormValue("search"),
			Outcome:   r.PostFormValue("outcome"),
			Duration:  r.PostFormValue("duration"),
			Drugs:     r.PostFormValue("drugs"),
		}

		parsed, errs := predict.Parse(data.Fields, durations, now)
		for _, err := range errs {
			var fe *predict.FormInputError
			if errors.As(err, &fe) {
				data.Errors[fe.Field] = err.Error()
			}
		}
		data.Summary = predict.Describe(parsed)
	}

	s.render(w, http.StatusOK, "predict.html", page{
		Title:  "Predict Outcome",
		Active: "predict",
		Data:   data,
	})
}

// =============================================================================
// JSON API
// =============================================================================

type catalogEntry struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	SQL   string `json:"sql"`
}

type runResponse struct {
	Label      string           `json:"label"`
	Columns    []string         `json:"columns"`
	Rows       [][]models.Value `json:"rows"`
	DurationMS int64            `json:"duration_ms"`
	Error      string           `json:"error,omitempty"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	entries := catalog.Entries()
	out := make([]catalogEntry, len(entries))
	for i, e := range entries {
		out[i] = catalogEntry{Index: i + 1, Label: e.Label, SQL: e.SQL}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCatalogRun(w http.ResponseWriter, r *http.Request) {
	entry, err := catalog.Resolve(r.URL.Query().Get("label"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	res, err := s.svc.RunAnalysis(r.Context(), entry.Label)
	if res == nil {
		status := http.StatusInternalServerError
		if db.IsConnectionError(err) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	resp := runResponse{
		Label:      res.Entry.Label,
		Columns:    res.Table.Columns,
		Rows:       res.Table.Rows,
		DurationMS: res.Duration.Milliseconds(),
	}
	if resp.Rows == nil {
		resp.Rows = [][]models.Value{}
	}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		if db.IsConnectionError(err) {
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}
