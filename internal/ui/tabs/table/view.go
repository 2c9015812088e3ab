package table

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/securecheck-dashboard/internal/ui/styles"
)

// View renders the full table tab.
func (m *Model) View() string {
	m.sync()

	sections := []string{m.renderTitle()}

	_, err := m.state.Ledger()
	switch {
	case m.source == nil && err != nil:
		sections = append(sections, styles.ErrorTextStyle.Render("Could not load the ledger: "+err.Error()))
	case m.source == nil:
		sections = append(sections, styles.HelpStyle.Render("Loading ledger..."))
	case m.rowCount() == 0:
		sections = append(sections, styles.WarningTextStyle.Render("The ledger has no records."))
	default:
		sections = append(sections,
			styles.CardStyle.Width(max(m.width-6, 30)).Render(m.table.View()),
			m.renderPager(),
		)
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Overview of the Police Logs")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d records", m.rowCount()))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderPager() string {
	first := m.page*m.pageSize + 1
	last := min((m.page+1)*m.pageSize, m.rowCount())

	return styles.HelpStyle.Render(fmt.Sprintf(
		"Page %d/%d  •  rows %d-%d of %d",
		m.page+1, m.Pages(), first, last, m.rowCount(),
	))
}
