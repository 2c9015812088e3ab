// Package table provides the full ledger table tab.
package table

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/ledger"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/styles"
)

// DefaultPageSize is used when the configured page size is not positive.
const DefaultPageSize = 100

const maxColumnWidth = 22

type keyMap struct {
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	Up        key.Binding
	Down      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model shows every ledger record, one page at a time.
type Model struct {
	state    *app.State
	table    table.Model
	keys     keyMap
	pageSize int
	page     int
	width    int
	height   int

	// source is the ledger the rows were built from.
	source *ledger.Ledger
}

// New creates the full table tab.
func New(state *app.State, pageSize int) *Model {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:    state,
		table:    t,
		keys:     defaultKeyMap(),
		pageSize: pageSize,
	}
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles paging and row navigation.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.LedgerLoadedMsg:
		m.sync()
		return m, nil

	case tea.KeyMsg:
		m.sync()
		switch {
		case key.Matches(msg, m.keys.NextPage):
			m.setPage(m.page + 1)
		case key.Matches(msg, m.keys.PrevPage):
			m.setPage(m.page - 1)
		case key.Matches(msg, m.keys.FirstPage):
			m.setPage(0)
		case key.Matches(msg, m.keys.LastPage):
			m.setPage(m.Pages() - 1)
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// Page returns the zero-based current page.
func (m *Model) Page() int {
	return m.page
}

// Pages returns the number of pages, at least one.
func (m *Model) Pages() int {
	n := m.rowCount()
	if n == 0 {
		return 1
	}
	return (n + m.pageSize - 1) / m.pageSize
}

func (m *Model) rowCount() int {
	if m.source == nil {
		return 0
	}
	return m.source.Table.Len()
}

func (m *Model) setPage(p int) {
	p = min(max(p, 0), m.Pages()-1)
	if p == m.page {
		return
	}
	m.page = p
	m.fillPage()
	m.table.GotoTop()
}

// sync rebuilds the table when a new ledger has been loaded.
func (m *Model) sync() {
	l, _ := m.state.Ledger()
	if l == m.source {
		return
	}
	m.source = l
	m.page = 0

	// Rows must be cleared before the columns shrink.
	m.table.SetRows(nil)
	if l == nil {
		m.table.SetColumns(nil)
		return
	}
	m.table.SetColumns(columns(l.Table))
	m.fillPage()
	m.table.GotoTop()
}

func (m *Model) fillPage() {
	if m.source == nil {
		return
	}
	start := m.page * m.pageSize
	end := min(start+m.pageSize, m.source.Table.Len())
	page := m.source.Table.Slice(start, end)

	rows := make([]table.Row, 0, page.Len())
	for _, r := range page.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v.String()
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
}

// columns sizes each column to its widest cell, capped.
func columns(t *models.ResultTable) []table.Column {
	cols := make([]table.Column, len(t.Columns))
	for i, name := range t.Columns {
		w := lipgloss.Width(name)
		for _, r := range t.Rows {
			if i < len(r) {
				w = max(w, lipgloss.Width(r[i].String()))
			}
		}
		cols[i] = table.Column{Title: name, Width: min(w, maxColumnWidth)}
	}
	return cols
}

// SetSize implements app.Tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(max(width-8, 20))
	m.table.SetHeight(max(height-10, 3))
}

// ShortHelp implements app.Tab.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextPage, m.keys.PrevPage}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.NextPage, m.keys.PrevPage},
		{m.keys.FirstPage, m.keys.LastPage},
	}
}
