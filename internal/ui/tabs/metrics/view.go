package metrics

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/securecheck-dashboard/internal/ui/components"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/styles"
)

// View renders the key metrics tab.
func (m *Model) View() string {
	sections := []string{
		styles.TitleStyle.Render("Key Metrics"),
	}

	l, err := m.state.Ledger()
	switch {
	case l == nil && err != nil:
		sections = append(sections, styles.ErrorTextStyle.Render("Could not load the ledger: "+err.Error()))
	case l == nil:
		sections = append(sections, styles.HelpStyle.Render("Loading ledger..."))
	default:
		sections = append(sections, m.renderCards())
		if dash := m.state.Dashboard(); len(dash) > 0 {
			sections = append(sections, components.RenderSpecs(dash, m.chartWidth()))
		} else {
			sections = append(sections, styles.HelpStyle.Render("No charts: the ledger has no records."))
		}
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) chartWidth() int {
	return min(max(m.width-8, 40), 120)
}

// renderCards lays the four counters side by side, or stacked when narrow.
func (m *Model) renderCards() string {
	mt := m.state.Metrics()
	cards := []string{
		card("Total Police Stops", mt.TotalStops),
		card("Total Arrests", mt.Arrests),
		card("Total Warnings", mt.Warnings),
		card("Drug Related Stops", mt.DrugRelated),
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > m.width-6 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return row
}

func card(title string, n int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.HelpStyle.Render(title),
		styles.MetricValueStyle.Render(strconv.Itoa(n)),
	)
	return styles.CardStyle.Width(24).MarginRight(1).Render(body)
}
