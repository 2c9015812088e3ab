// Package outcome provides the predict outcome tab: a stop form whose
// submission is echoed back as a sentence.
package outcome

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/predict"
)

// formField identifies a row of the form.
type formField int

const (
	fieldDate formField = iota
	fieldTime
	fieldGender
	fieldAge
	fieldViolation
	fieldSearch
	fieldOutcome
	fieldDuration
	fieldDrugs
	fieldSubmit
	fieldCount
)

var fieldLabels = map[formField]string{
	fieldDate:      "Stop date",
	fieldTime:      "Stop time (HH:MM:SS)",
	fieldGender:    "Driver gender",
	fieldAge:       "Driver age",
	fieldViolation: "Violation",
	fieldSearch:    "Search conducted",
	fieldOutcome:   "Stop outcome",
	fieldDuration:  "Stop duration",
	fieldDrugs:     "Drug related",
}

// errorKeys maps form rows to predict.FormInputError field names.
var errorKeys = map[formField]string{
	fieldDate:      "date",
	fieldTime:      "time",
	fieldGender:    "gender",
	fieldAge:       "age",
	fieldViolation: "violation",
	fieldOutcome:   "outcome",
	fieldDuration:  "duration",
}

type keyMap struct {
	Edit   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Escape key.Binding
	Reset  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit form"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous choice"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next choice"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop editing"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset form"),
		),
	}
}

// Model is the predict outcome tab.
type Model struct {
	state *app.State
	keys  keyMap
	now   func() time.Time

	editing bool
	focused formField

	dateInput textinput.Model
	timeInput textinput.Model
	ageInput  textinput.Model

	// choice holds the selected option index of each select row.
	choice map[formField]int

	summary string
	errs    map[string]error

	width  int
	height int
}

// New creates the predict tab.
func New(state *app.State) *Model {
	m := &Model{
		state: state,
		keys:  defaultKeyMap(),
		now:   time.Now,
	}
	m.reset()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 20
	return in
}

// reset restores the form to its first-shown values.
func (m *Model) reset() {
	def := predict.Default(m.state.Durations(), m.now())

	m.dateInput = newInput("YYYY-MM-DD", 10)
	m.dateInput.SetValue(def.Date.Format("2006-01-02"))
	m.timeInput = newInput("HH:MM:SS", 8)
	m.timeInput.SetValue(def.TimeText)
	m.ageInput = newInput("18-80", 2)
	m.ageInput.SetValue("18")

	m.choice = map[formField]int{}
	m.summary = ""
	m.errs = nil
	m.focused = fieldDate
	m.updateFocus()
}

// options returns the choices of a select row, nil for other rows.
func (m *Model) options(f formField) []string {
	switch f {
	case fieldGender:
		return predict.Genders
	case fieldViolation:
		return predict.Violations
	case fieldSearch, fieldDrugs:
		return predict.Flags
	case fieldOutcome:
		return predict.Outcomes
	case fieldDuration:
		return m.state.Durations()
	}
	return nil
}

// selected returns the current option of a select row. The index is
// clamped since the duration list follows the loaded ledger.
func (m *Model) selected(f formField) string {
	opts := m.options(f)
	if len(opts) == 0 {
		return ""
	}
	return opts[min(max(m.choice[f], 0), len(opts)-1)]
}

func (m *Model) cycle(f formField, delta int) {
	opts := m.options(f)
	if len(opts) == 0 {
		return
	}
	i := min(max(m.choice[f], 0), len(opts)-1)
	m.choice[f] = (i + delta + len(opts)) % len(opts)
}

// Capturing reports whether keys should go to the form.
func (m *Model) Capturing() bool {
	return m.editing
}

// Summary returns the sentence for the last submission.
func (m *Model) Summary() string {
	return m.summary
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles the form.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateInput(msg)
	}

	if !m.editing {
		switch {
		case key.Matches(keyMsg, m.keys.Edit):
			m.editing = true
			m.updateFocus()
			return m, textinput.Blink
		case key.Matches(keyMsg, m.keys.Reset):
			m.reset()
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Escape):
		m.editing = false
		m.updateFocus()
		return m, nil

	case key.Matches(keyMsg, m.keys.Next):
		m.focused = (m.focused + 1) % fieldCount
		m.updateFocus()
		return m, textinput.Blink

	case key.Matches(keyMsg, m.keys.Prev):
		m.focused = (m.focused - 1 + fieldCount) % fieldCount
		m.updateFocus()
		return m, textinput.Blink

	case key.Matches(keyMsg, m.keys.Submit):
		if m.focused == fieldSubmit {
			m.submit()
			return m, nil
		}
		m.focused++
		m.updateFocus()
		return m, textinput.Blink

	case m.options(m.focused) != nil && key.Matches(keyMsg, m.keys.Left):
		m.cycle(m.focused, -1)
		return m, nil

	case m.options(m.focused) != nil && key.Matches(keyMsg, m.keys.Right):
		m.cycle(m.focused, 1)
		return m, nil
	}

	return m, m.updateInput(msg)
}

// updateInput passes msg to the focused text input, if any.
func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focused {
	case fieldDate:
		m.dateInput, cmd = m.dateInput.Update(msg)
	case fieldTime:
		m.timeInput, cmd = m.timeInput.Update(msg)
	case fieldAge:
		m.ageInput, cmd = m.ageInput.Update(msg)
	}
	return cmd
}

func (m *Model) updateFocus() {
	m.dateInput.Blur()
	m.timeInput.Blur()
	m.ageInput.Blur()

	if !m.editing {
		return
	}
	switch m.focused {
	case fieldDate:
		m.dateInput.Focus()
	case fieldTime:
		m.timeInput.Focus()
	case fieldAge:
		m.ageInput.Focus()
	}
}

// Fields returns the raw form values.
func (m *Model) Fields() predict.Fields {
	return predict.Fields{
		Date:      m.dateInput.Value(),
		Time:      m.timeInput.Value(),
		Gender:    m.selected(fieldGender),
		Age:       m.ageInput.Value(),
		Violation: m.selected(fieldViolation),
		Search:    m.selected(fieldSearch),
		Outcome:   m.selected(fieldOutcome),
		Duration:  m.selected(fieldDuration),
		Drugs:     m.selected(fieldDrugs),
	}
}

// submit validates the form and renders the sentence. Invalid fields are
// reported inline and fall back to their defaults in the sentence.
func (m *Model) submit() {
	in, errs := predict.Parse(m.Fields(), m.state.Durations(), m.now())

	m.errs = make(map[string]error, len(errs))
	for _, err := range errs {
		var fe *predict.FormInputError
		if errors.As(err, &fe) {
			m.errs[fe.Field] = err
		}
	}
	m.summary = predict.Describe(in)
}

// SetSize implements app.Tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp implements app.Tab.
func (m *Model) ShortHelp() []key.Binding {
	if m.editing {
		return []key.Binding{m.keys.Next, m.keys.Left, m.keys.Right, m.keys.Submit, m.keys.Escape}
	}
	return []key.Binding{m.keys.Edit, m.keys.Reset}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Edit, m.keys.Escape, m.keys.Reset},
		{m.keys.Next, m.keys.Prev},
		{m.keys.Left, m.keys.Right, m.keys.Submit},
	}
}
