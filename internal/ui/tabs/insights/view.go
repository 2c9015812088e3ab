package insights

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/j-veylop/securecheck-dashboard/internal/app"
	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/models"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/components"
	"github.com/j-veylop/securecheck-dashboard/internal/ui/styles"
)

// View renders the insights tab.
func (m *Model) View() string {
	sections := []string{
		styles.TitleStyle.Render("Advanced Insights"),
		m.renderPicker(),
	}

	res, err := m.state.Analysis()
	switch {
	case m.state.IsLoading(app.ResourceAnalysis):
		sections = append(sections, m.spinner.View())
	case res != nil:
		if res != m.shown {
			m.shown = res
			m.viewport.SetContent(m.renderResult(res))
			m.viewport.GotoTop()
		}
		if err != nil {
			sections = append(sections, styles.ErrorTextStyle.Render(err.Error()))
		}
		sections = append(sections, m.viewport.View())
	case err != nil:
		sections = append(sections, styles.ErrorTextStyle.Render(err.Error()))
	default:
		sections = append(sections, styles.HelpStyle.Render("Press enter to run the selected query."))
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderPicker shows a window of labels around the cursor.
func (m *Model) renderPicker() string {
	start := min(max(m.cursor-pickerRows/2, 0), max(len(m.labels)-pickerRows, 0))
	end := min(start+pickerRows, len(m.labels))

	rows := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		line := fmt.Sprintf("%2d. %s", i+1, m.labels[i])
		if i == m.cursor {
			rows = append(rows, styles.SelectedListItemStyle.Render("> "+line))
		} else {
			rows = append(rows, styles.ListItemStyle.Render(line))
		}
	}
	rows = append(rows, styles.HelpStyle.Render(fmt.Sprintf("query %d of %d", m.cursor+1, len(m.labels))))

	return styles.CardStyle.Width(max(m.width-6, 40)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderResult(res *catalog.Result) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		styles.SubTitleStyle.UnsetMarginBottom().Render(res.Entry.Label),
		styles.HelpStyle.Render(fmt.Sprintf("%d rows in %s", res.Table.Len(), res.Duration.Round(time.Millisecond))),
		"",
	)

	parts := []string{header}
	if !res.Table.Empty() {
		parts = append(parts, RenderTable(res.Table), "")
	}
	parts = append(parts, components.RenderSpecs(res.Charts, m.viewport.Width))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RenderTable draws a result table with a header row. NULL cells are blank.
func RenderTable(t *models.ResultTable) string {
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

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Subtle)).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableCellStyle.Bold(true).Foreground(styles.Primary)
			}
			return styles.TableCellStyle
		}).
		String()
}
