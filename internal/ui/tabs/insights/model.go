// Package insights provides the advanced insights tab: pick one of the
// catalog analyses, run it, and see its result table and chart.
package insights

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/components"
)

// pickerRows is how many labels the picker shows at once.
const pickerRows = 8

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Run      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous query"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next query"),
		),
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run query"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll result up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll result down"),
		),
	}
}

// Model is the advanced insights tab.
type Model struct {
	state    *app.State
	labels   []string
	cursor   int
	keys     keyMap
	spinner  components.LoadingSpinner
	viewport viewport.Model
	width    int
	height   int

	// shown is the result last laid out in the viewport.
	shown *catalog.Result
}

// New creates the insights tab over the catalog labels.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		labels:   catalog.Labels(),
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Running the query..."),
		viewport: viewport.New(0, 0),
	}
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Selected returns the label under the cursor.
func (m *Model) Selected() string {
	return m.labels[m.cursor]
}

// Update moves the picker, runs the selection and animates while it runs.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.state.IsLoading(app.ResourceAnalysis) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor - 1 + len(m.labels)) % len(m.labels)
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % len(m.labels)
		case key.Matches(msg, m.keys.Run):
			return m, tea.Batch(app.RunAnalysis(m.Selected()), m.spinner.Tick())
		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// SetSize implements app.Tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-6, 20)
	m.viewport.Height = max(height-pickerRows-8, 5)
}

// ShortHelp implements app.Tab.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Run}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down, m.keys.Run},
		{m.keys.PageUp, m.keys.PageDown},
	}
}
