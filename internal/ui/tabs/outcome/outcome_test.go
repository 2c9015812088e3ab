package outcome

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/predict"
)

var fixedNow = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

func newModel() *Model {
	m := New(app.NewState())
	m.now = func() time.Time { return fixedNow }
	m.reset()
	m.SetSize(120, 50)
	return m
}

func send(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (m *Model) focus(f formField) {
	m.focused = f
	m.updateFocus()
}

func TestModel_Defaults(t *testing.T) {
	m := newModel()

	want := predict.Fields{
		Date:      "2024-05-17",
		Time:      predict.DefaultTime,
		Gender:    "female",
		Age:       "18",
		Violation: "Seatbelt",
		Search:    "0",
		Outcome:   "Ticket",
		Duration:  "0-15 Min",
		Drugs:     "0",
	}
	if got := m.Fields(); got != want {
		t.Errorf("Fields() = %+v, want %+v", got, want)
	}
	if m.Capturing() {
		t.Error("a fresh form should not capture keys")
	}
}

func TestModel_EditingCapturesKeys(t *testing.T) {
	m := newModel()

	send(m, runes("e"))
	if !m.Capturing() {
		t.Fatal("e should start editing")
	}
	if m.focused != fieldDate || !m.dateInput.Focused() {
		t.Error("editing should start on the date field")
	}

	send(m, keyTab)
	if m.focused != fieldTime || !m.timeInput.Focused() || m.dateInput.Focused() {
		t.Error("tab should move focus to the time field")
	}

	send(m, keyUp, keyUp)
	if m.focused != fieldSubmit {
		t.Errorf("up from the first field should wrap to submit, got %d", m.focused)
	}

	send(m, keyEsc)
	if m.Capturing() || m.timeInput.Focused() {
		t.Error("esc should stop editing")
	}
}

func TestModel_TypingIntoAge(t *testing.T) {
	m := newModel()
	send(m, runes("e"))
	m.focus(fieldAge)
	m.ageInput.SetValue("")

	send(m, runes("4"), runes("2"))
	if got := m.Fields().Age; got != "42" {
		t.Errorf("Age = %q, want 42", got)
	}
}

func TestModel_SelectsCycle(t *testing.T) {
	m := newModel()
	send(m, runes("e"))

	m.focus(fieldGender)
	send(m, keyRight)
	if got := m.Fields().Gender; got != "male" {
		t.Errorf("Gender = %q, want male", got)
	}
	send(m, keyRight)
	if got := m.Fields().Gender; got != "female" {
		t.Errorf("Gender should wrap, got %q", got)
	}

	m.focus(fieldViolation)
	send(m, keyLeft)
	if got := m.Fields().Violation; got != "Other" {
		t.Errorf("Violation = %q, want Other", got)
	}

	m.focus(fieldDate)
	before := m.Fields()
	send(m, keyRight)
	if m.Fields().Gender != before.Gender || m.Fields().Violation != before.Violation {
		t.Error("arrows on a text field should not change selections")
	}
}

func TestModel_Submit(t *testing.T) {
	m := newModel()
	send(m, runes("e"))

	m.timeInput.SetValue("23:30:00")
	m.ageInput.SetValue("30")

	m.focus(fieldGender)
	send(m, keyRight)
	m.focus(fieldViolation)
	send(m, keyRight, keyRight, keyRight)
	m.focus(fieldSearch)
	send(m, keyRight)
	m.focus(fieldOutcome)
	send(m, keyRight)
	m.focus(fieldDuration)
	send(m, keyRight, keyRight)
	m.focus(fieldDrugs)
	send(m, keyRight)

	m.focus(fieldSubmit)
	send(m, keyEnter)

	want := "A 30-year-old male driver was stopped for DUI at 11:30 PM. A search was conducted, " +
		"and he received a Arrest. The stop lasted 30+ Min and was drugs related."
	if m.Summary() != want {
		t.Errorf("Summary() =\n%q\nwant\n%q", m.Summary(), want)
	}
	if len(m.errs) != 0 {
		t.Errorf("unexpected errors: %v", m.errs)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Summary") {
		t.Error("View should show the summary card")
	}
}

func TestModel_SubmitInvalidFields(t *testing.T) {
	m := newModel()
	send(m, runes("e"))

	m.timeInput.SetValue("25:61")
	m.ageInput.SetValue("12")
	m.focus(fieldSubmit)
	send(m, keyEnter)

	if _, ok := m.errs["time"]; !ok {
		t.Error("bad time should be reported")
	}
	if _, ok := m.errs["age"]; !ok {
		t.Error("out of range age should be reported")
	}
	if !strings.Contains(m.Summary(), "at an unknown time") {
		t.Errorf("summary should still render, got %q", m.Summary())
	}
	if !strings.Contains(m.Summary(), "A 18-year-old") {
		t.Errorf("invalid age should fall back to the minimum, got %q", m.Summary())
	}
}

func TestModel_EnterAdvancesUntilSubmit(t *testing.T) {
	m := newModel()
	send(m, runes("e"))
	send(m, keyEnter)
	if m.focused != fieldTime {
		t.Errorf("enter on a field should move to the next one, got %d", m.focused)
	}
	if m.Summary() != "" {
		t.Error("enter on a field should not submit")
	}
}

func TestModel_Reset(t *testing.T) {
	m := newModel()
	send(m, runes("e"))
	m.focus(fieldGender)
	send(m, keyRight)
	m.focus(fieldSubmit)
	send(m, keyEnter, keyEsc)

	send(m, runes("x"))
	if m.Summary() != "" || m.Fields().Gender != "female" {
		t.Error("x should reset the form")
	}
}

func TestModel_DurationsFollowLedger(t *testing.T) {
	state := app.NewState()
	m := New(state)

	m.choice[fieldDuration] = 99
	if got := m.selected(fieldDuration); got != "30+ Min" {
		t.Errorf("out of range choice should clamp to the last option, got %q", got)
	}
}

func TestModel_View(t *testing.T) {
	m := newModel()
	view := ansi.Strip(m.View())
	for _, want := range []string{
		"Predict the Outcome and Violation",
		"Stop time (HH:MM:SS)",
		"Driver gender",
		"Press e to fill in the form",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	send(m, runes("e"))
	m.focus(fieldGender)
	if !strings.Contains(ansi.Strip(m.View()), "‹ female ›") {
		t.Error("focused select should show its arrows")
	}
	if len(m.ShortHelp()) != 5 {
		t.Error("editing help should list the form keys")
	}
}
