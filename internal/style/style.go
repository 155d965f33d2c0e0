// Package style provides shared lipgloss styles for CLI output.
package style

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Bold is used for headers and emphasized values.
	Bold = lipgloss.NewStyle().Bold(true)

	// Dim is used for secondary information and hints.
	Dim = lipgloss.NewStyle().Faint(true)

	// Warning is used for non-fatal problems.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// Error is used for failures.
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// Success is used for confirmations.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
