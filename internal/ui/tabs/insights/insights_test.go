package insights

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/charts"
	"github.com/j-veylop/securecheck-dashboard/internal/db"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func result(t *testing.T) *catalog.Result {
	t.Helper()
	entry := catalog.Entries()[0]

	tbl := models.NewResultTable("vehicle_number", "count")
	tbl.Append(models.String("CD456"), models.Int(3))
	tbl.Append(models.String("EF789"), models.Int(1))

	return &catalog.Result{
		Entry:    entry,
		Table:    tbl,
		Charts:   charts.Dispatch(tbl, entry.Label),
		Duration: 12 * time.Millisecond,
	}
}

func TestModel_Picker(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(120, 50)

	if m.Selected() != catalog.Labels()[0] {
		t.Fatalf("Selected() = %q", m.Selected())
	}

	m.Update(keyPress("j"))
	m.Update(keyPress("j"))
	if m.Selected() != catalog.Labels()[2] {
		t.Errorf("Selected() = %q, want the third label", m.Selected())
	}

	m.Update(keyPress("k"))
	m.Update(keyPress("up"))
	m.Update(keyPress("up"))
	if m.Selected() != catalog.Labels()[catalog.Len()-1] {
		t.Errorf("moving up from the top should wrap, got %q", m.Selected())
	}

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "> 20. ") {
		t.Errorf("picker should mark the cursor:\n%s", view)
	}
	if !strings.Contains(view, "query 20 of 20") {
		t.Error("picker should show the position")
	}
	if strings.Contains(view, " 1. ") {
		t.Error("picker should only show a window around the cursor")
	}
}

func TestModel_RunRequestsAnalysis(t *testing.T) {
	m := New(app.NewState())
	m.Update(keyPress("j"))

	_, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("enter should return a command")
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected a batch, got %T", cmd())
	}

	var got []string
	for _, c := range batch {
		if c == nil {
			continue
		}
		if req, ok := c().(app.RunAnalysisMsg); ok {
			got = append(got, req.Label)
		}
	}
	if len(got) != 1 || got[0] != catalog.Labels()[1] {
		t.Errorf("run requests = %v, want the second label", got)
	}
}

func TestModel_ViewStates(t *testing.T) {
	state := app.NewState()
	state.SetLoading(app.ResourceInitial, false)
	m := New(state)
	m.SetSize(120, 60)

	if !strings.Contains(ansi.Strip(m.View()), "Press enter to run") {
		t.Error("idle tab should prompt for a run")
	}

	state.SetLoading(app.ResourceAnalysis, true)
	if !strings.Contains(ansi.Strip(m.View()), "Running the query...") {
		t.Error("running tab should show the spinner")
	}
	state.SetLoading(app.ResourceAnalysis, false)

	res := result(t)
	state.SetAnalysis(res, nil)
	view := ansi.Strip(m.View())
	for _, want := range []string{
		res.Entry.Label,
		"2 rows in 12ms",
		"vehicle_number",
		"CD456",
		"Visualization of " + res.Entry.Label,
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	state.SetAnalysis(nil, &db.QueryError{Query: "SELECT", Err: errors.New("syntax")})
	view = ansi.Strip(m.View())
	if !strings.Contains(view, "syntax") {
		t.Error("a failed run should show its error")
	}
	if !strings.Contains(view, "CD456") {
		t.Error("a failed run should keep the previous result")
	}
}

func TestModel_EmptyResult(t *testing.T) {
	state := app.NewState()
	m := New(state)
	m.SetSize(120, 60)

	entry := catalog.Entries()[3]
	tbl := models.NewResultTable("violation", "count")
	state.SetAnalysis(&catalog.Result{Entry: entry, Table: tbl, Charts: charts.Dispatch(tbl, entry.Label)}, nil)

	if !strings.Contains(ansi.Strip(m.View()), charts.NoResults) {
		t.Error("an empty result should show the no results notice")
	}
}

func TestModel_SpinnerOnlyWhileLoading(t *testing.T) {
	state := app.NewState()
	m := New(state)

	tick := m.spinner.Tick()()
	if _, cmd := m.Update(tick); cmd != nil {
		t.Error("spinner should stop when nothing is running")
	}

	state.SetLoading(app.ResourceAnalysis, true)
	if _, cmd := m.Update(tick.(spinner.TickMsg)); cmd == nil {
		t.Error("spinner should keep ticking while a query runs")
	}
}

func TestRenderTable(t *testing.T) {
	tbl := models.NewResultTable("country_name", "avg_duration")
	tbl.Append(models.String("USA"), models.Null())

	out := ansi.Strip(RenderTable(tbl))
	for _, want := range []string{"country_name", "avg_duration", "USA"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "NULL") || strings.Contains(out, "<nil>") {
		t.Error("NULL cells should be blank")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if m.Init() != nil {
		t.Error("Init should return nil")
	}
	if len(m.ShortHelp()) != 3 || len(m.FullHelp()) != 2 {
		t.Error("unexpected help bindings")
	}
}
