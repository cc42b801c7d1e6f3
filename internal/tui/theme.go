package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the resolver.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	Score       lipgloss.Style
	Remember    lipgloss.Style
	Box         lipgloss.Style
	StatusError lipgloss.Style
}

// DefaultTheme is the default resolver theme.
var DefaultTheme = Theme{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#2f855a")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Score: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
	Remember: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
}

// PlainTheme renders without colors, for tests and dumb terminals.
var PlainTheme = Theme{
	Title:       lipgloss.NewStyle(),
	Subtitle:    lipgloss.NewStyle(),
	Normal:      lipgloss.NewStyle(),
	Muted:       lipgloss.NewStyle(),
	Selected:    lipgloss.NewStyle(),
	Score:       lipgloss.NewStyle(),
	Remember:    lipgloss.NewStyle(),
	Box:         lipgloss.NewStyle(),
	StatusError: lipgloss.NewStyle(),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "plain":
		return PlainTheme
	default:
		return DefaultTheme
	}
}
