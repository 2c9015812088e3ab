package intro

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/db"
)

func TestModel_View(t *testing.T) {
	cfg := &config.Config{
		Driver:     config.DriverMySQL,
		Host:       "db.local",
		Port:       3306,
		Database:   "Traffic_Stops",
		IntroImage: "assets/police_logs.jpg",
	}
	m := New(app.NewState(), cfg)
	m.SetSize(100, 60)

	view := ansi.Strip(m.View())
	for _, want := range []string{
		"Digital Ledger for Police Post Logs",
		Features[0],
		"assets/police_logs.jpg",
		"db.local:3306",
		"Traffic_Stops",
		"reachable",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_ViewSQLiteAndDown(t *testing.T) {
	state := app.NewState()
	state.SetLedger(nil, &db.ConnectionError{Driver: "sqlite", Target: "x", Err: errors.New("gone")})
	state.SetStoreReachable(false)

	m := New(state, &config.Config{Driver: config.DriverSQLite, Path: "/tmp/ledger.db"})
	m.SetSize(100, 60)

	view := ansi.Strip(m.View())
	if !strings.Contains(view, "/tmp/ledger.db") {
		t.Error("sqlite store should show its file")
	}
	if !strings.Contains(view, "unreachable") {
		t.Error("status should show the store is down")
	}
	if strings.Contains(view, "Illustration") {
		t.Error("no illustration row without intro_image")
	}
}

func TestModel_NilConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(80, 40)
	if !strings.Contains(ansi.Strip(m.View()), "Configuration not loaded") {
		t.Error("nil config should be reported")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), nil)
	if m.Init() != nil {
		t.Error("Init should return nil")
	}

	tab, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if tab != m {
		t.Error("Update should return the same tab")
	}
	if tab, cmd := m.Update(app.TickMsg{}); tab != m || cmd != nil {
		t.Error("non-key messages should be ignored")
	}

	if len(m.ShortHelp()) != 2 || len(m.FullHelp()) != 1 {
		t.Error("help should list the scroll keys")
	}
}
