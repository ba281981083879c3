package tui

import (
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/lipgloss/v2"
)

// Color constants shared with the banner and the text report
var (
	RGBBlue       = lipgloss.Color("45")
	RGBPink       = lipgloss.Color("201")
	RGBRed        = lipgloss.Color("196")
	RGBYellow     = lipgloss.Color("220")
	RGBGreen      = lipgloss.Color("46")
	RGBGrey       = lipgloss.Color("246")
	RGBSubtlePink = lipgloss.Color("#2a1a2a")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink)

	HelpStyle = lipgloss.NewStyle().
			Faint(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(RGBRed).
			Bold(true)

	statusOKStyle      = lipgloss.NewStyle().Foreground(RGBGreen)
	statusWarningStyle = lipgloss.NewStyle().Foreground(RGBYellow)
	statusErrorStyle   = lipgloss.NewStyle().Foreground(RGBRed)

	panelBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(RGBBlue)
)

// StatusStyle colours a response status by class.
func StatusStyle(code int) lipgloss.Style {
	switch {
	case code >= 500:
		return statusErrorStyle
	case code >= 400:
		return statusWarningStyle
	case code > 0:
		return statusOKStyle
	default:
		return HelpStyle
	}
}

// ApplyTableStyles gives the entry table the pink header and selection theme.
func ApplyTableStyles(t table.Model) table.Model {
	s := table.DefaultStyles()

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		BorderBottom(true).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		Foreground(RGBPink).
		Bold(true).
		Padding(0, 1)

	s.Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(RGBPink).
		Background(RGBSubtlePink)

	s.Cell = lipgloss.NewStyle().Padding(0, 1)

	t.SetStyles(s)
	return t
}
