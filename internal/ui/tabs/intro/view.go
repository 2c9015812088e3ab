package intro

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/styles"
	"github.com/j-veylop/securecheck-dashboard/internal/version"
)

// Features lists what the dashboard offers, one line each.
var Features = []string{
	"Terminal and browser dashboards over one ledger",
	"SQL store for every check post log",
	"One system shared by all check posts",
	"Crime and check post activity analysis",
	"Instant reports and charts",
}

// View renders the introduction tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderAboutCard(),
		m.renderStoreCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Digital Ledger for Police Post Logs")
	subtitle := styles.HelpStyle.Render("SQL-backed check post database with real-time insights")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("Features"),
	}
	for _, f := range Features {
		rows = append(rows, styles.ListItemStyle.Render("• "+f))
	}

	if m.config != nil && m.config.IntroImage != "" {
		rows = append(rows, "", renderRow("Illustration", m.config.IntroImage))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStoreCard() string {
	rows := []string{styles.CardTitleStyle.Render("Ledger Store")}

	if m.config != nil {
		store := m.config.Store()
		rows = append(rows, renderRow("Driver", store.Driver))
		if store.Driver == config.DriverSQLite {
			rows = append(rows, renderRow("File", store.Path))
		} else {
			rows = append(rows, renderRow("Server", fmt.Sprintf("%s:%d", store.Host, store.Port)))
			rows = append(rows, renderRow("Database", store.Database))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	status := styles.SuccessTextStyle.Render("reachable")
	if !m.state.StoreReachable() {
		status = styles.ErrorTextStyle.Render("unreachable")
	}
	rows = append(rows, renderRow("Status", status))

	if l, _ := m.state.Ledger(); l != nil {
		rows = append(rows, renderRow("Records", fmt.Sprintf("%d", l.Table.Len())))
	}

	rows = append(rows, "",
		renderRow("Version", version.GetVersion()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(14).
		Foreground(styles.TextMuted)

	return labelStyle.Render(label+":") + " " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(value)
}
