package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/attest-dev/attest/pkg/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#45B7D1"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	statusStyles = map[models.ValidationStatus]lipgloss.Style{
		models.StatusValid:        lipgloss.NewStyle().Foreground(lipgloss.Color("#96E6A1")),
		models.StatusWarning:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC857")),
		models.StatusStale:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8E53")),
		models.StatusUnverifiable: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		models.StatusInvalid:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
)

// statusBadge renders a fixed-width colored status label.
func statusBadge(s models.ValidationStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		style = helpStyle
	}
	return style.Render(string(s))
}

// scoreStyle colors a score by health: green for healthy, yellow for
// middling, red for poor.
func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 75:
		return statusStyles[models.StatusValid]
	case score >= 40:
		return statusStyles[models.StatusWarning]
	default:
		return statusStyles[models.StatusInvalid]
	}
}
