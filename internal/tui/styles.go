package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle styles the table title line.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"rendered": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"uploaded": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"complete": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"fetching":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"composing": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"rendering": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"uploading": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Skipped / warning
		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"missing": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Error
		"failed": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"error":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
