// ABOUTME: Defines lipgloss style constants for the TUI panels, status bar and dialogs.
// ABOUTME: Output lines are coloured by whether the last command succeeded.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	// Command output
	OutputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	UnsavedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	SavedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// Overwrite confirmation
	ConfirmStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)
)
