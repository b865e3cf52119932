package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Palette
const (
	colorPrimary   = lipgloss.Color("#4EA8DE")
	colorSecondary = lipgloss.Color("#80FFDB")
	colorGradient  = "#5390D9"
	colorText      = lipgloss.Color("#E5E7EB")
	colorMuted     = lipgloss.Color("#6B7280")
	colorPanel     = lipgloss.Color("#1F2937")
	colorError     = lipgloss.Color("#FF4757")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginTop(1)

	LinkStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Underline(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginBottom(1)

	// TargetStyle is an export format in the picker; ActiveTargetStyle is
	// the one under the cursor.
	TargetStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(1).
			PaddingRight(1)

	ActiveTargetStyle = TargetStyle.
				Foreground(colorPanel).
				Background(colorSecondary).
				Bold(true)

	// ToggleOnStyle renders an enabled option such as cleaning.
	ToggleOnStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	// MoreRowsStyle is the footer under a truncated preview.
	MoreRowsStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)
)

// previewStyles is the read-only table look: no selected row highlight.
func previewStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorPrimary).
		BorderBottom(true).
		Foreground(colorSecondary).
		Bold(true)
	styles.Cell = styles.Cell.Foreground(colorText)
	styles.Selected = lipgloss.NewStyle()
	return styles
}
