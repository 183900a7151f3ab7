// Package ui is the terminal admin console: lipgloss styling plus the
// bubbletea model that drives the Tools/Requests/Waitlist tabs.
package ui

import "github.com/charmbracelet/lipgloss"

// SnapAI brand palette.
var (
	Violet   = lipgloss.Color("#8B5CF6")
	Cyan     = lipgloss.Color("#22D3EE")
	Slate    = lipgloss.Color("#64748B")
	Cloud    = lipgloss.Color("#E2E8F0")
	Red      = lipgloss.Color("#EF4444")
	Green    = lipgloss.Color("#4ADE80")
	Amber    = lipgloss.Color("#FBBF24")
	Midnight = lipgloss.Color("#0F172A")
)

// Styles holds the rendered component styles.
type Styles struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Selected  lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Panel     lipgloss.Style
}

// DefaultStyles returns the console styling.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(Violet),
		Bold:      lipgloss.NewStyle().Bold(true).Foreground(Cloud),
		Body:      lipgloss.NewStyle().Foreground(Cloud),
		Muted:     lipgloss.NewStyle().Foreground(Slate),
		Tab:       lipgloss.NewStyle().Foreground(Slate).Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(Midnight).Background(Violet).Padding(0, 2),
		Selected:  lipgloss.NewStyle().Foreground(Cyan).Bold(true),
		Help:      lipgloss.NewStyle().Foreground(Slate),
		Error:     lipgloss.NewStyle().Foreground(Red),
		Success:   lipgloss.NewStyle().Foreground(Green),
		Warning:   lipgloss.NewStyle().Foreground(Amber),
		Panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Slate).Padding(0, 1),
	}
}
