// Package styles holds the lipgloss palette and shared styles of the
// terminal dashboard.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette. Blue is the check post colour; red, yellow and blue double as
// the arrest, warning and ticket outcome colours.
var (
	Primary   = lipgloss.Color("33")
	Secondary = lipgloss.Color("63")
	Subtle    = lipgloss.Color("240")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// Page layout.
var (
	DocStyle = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)

	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	SubTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Secondary).MarginBottom(1)

	// CardStyle frames the introduction panels and the metric cards.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			MarginBottom(1)
	CardTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	MetricValueStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)

	HelpStyle      = lipgloss.NewStyle().Foreground(TextMuted)
	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3).
			Background(BgDark)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// Analysis picker and result tables.
var (
	ListItemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	SelectedListItemStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	TableCellStyle        = lipgloss.NewStyle().Padding(0, 1)
)

// Prediction form.
var (
	LabelStyle   = lipgloss.NewStyle().Foreground(TextSecondary).Width(24)
	FocusedStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	BlurredStyle = lipgloss.NewStyle().Foreground(TextMuted)

	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Primary).
				Padding(0, 1)
	BlurredBorderStyle = FocusedBorderStyle.BorderForeground(Subtle)

	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).MarginRight(1)
	ButtonActiveStyle   = buttonStyle.Background(Primary).Foreground(lipgloss.Color("229")).Bold(true)
	ButtonInactiveStyle = buttonStyle.Background(BgLight).Foreground(TextSecondary)
)

// Message text.
var (
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

// OutcomeStyle colours a stop outcome.
func OutcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "Arrest":
		return ErrorTextStyle.Bold(true)
	case "Warning":
		return WarningTextStyle
	case "Ticket":
		return InfoTextStyle
	default:
		return lipgloss.NewStyle().Foreground(TextSecondary)
	}
}

// CenterHorizontal centers content within width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content within a width x height box.
func CenterBoth(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
