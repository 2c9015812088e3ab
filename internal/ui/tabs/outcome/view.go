package outcome

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/securecheck-dashboard/internal/ui/styles"
)

// View renders the predict outcome tab.
func (m *Model) View() string {
	sections := []string{
		styles.TitleStyle.Render("Predict the Outcome and Violation"),
		m.renderForm(),
	}

	if m.summary != "" {
		sections = append(sections, m.renderSummary())
	}

	if !m.editing {
		sections = append(sections, styles.HelpStyle.Render("Press e to fill in the form, x to reset it."))
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderForm() string {
	rows := make([]string, 0, fieldCount+1)

	for f := fieldDate; f < fieldSubmit; f++ {
		rows = append(rows, m.renderField(f))
	}

	rows = append(rows, "", m.renderButton())

	border := styles.BlurredBorderStyle
	if m.editing {
		border = styles.FocusedBorderStyle
	}
	return border.Width(min(max(m.width-6, 50), 80)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderField(f formField) string {
	active := m.editing && m.focused == f

	label := "  " + fieldLabels[f]
	labelStyle := styles.LabelStyle
	if active {
		label = "> " + fieldLabels[f]
		labelStyle = labelStyle.Foreground(styles.Primary).Bold(true)
	}

	var value string
	switch f {
	case fieldDate:
		value = m.dateInput.View()
	case fieldTime:
		value = m.timeInput.View()
	case fieldAge:
		value = m.ageInput.View()
	default:
		value = m.renderChoice(f, active)
	}

	line := labelStyle.Render(label) + value
	if err, ok := m.errs[errorKeys[f]]; ok && errorKeys[f] != "" {
		line += "  " + styles.ErrorTextStyle.Render(err.Error())
	}
	return line
}

func (m *Model) renderChoice(f formField, active bool) string {
	v := m.selected(f)
	if v == "" {
		return styles.BlurredStyle.Render("(none)")
	}
	if active {
		return styles.FocusedStyle.Render("‹ " + v + " ›")
	}
	return "  " + v
}

func (m *Model) renderButton() string {
	const text = "Predict the stop outcome and violation"
	if m.editing && m.focused == fieldSubmit {
		return styles.ButtonActiveStyle.Render(text)
	}
	return styles.ButtonInactiveStyle.Render(text)
}

func (m *Model) renderSummary() string {
	return styles.CardStyle.
		Width(min(max(m.width-6, 50), 80)).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.CardTitleStyle.Render("Summary"),
			m.summary,
		))
}
