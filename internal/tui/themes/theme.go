// Package themes defines color palettes for the explore TUI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	Checked     lipgloss.Style
	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	Error       lipgloss.Style
	Primary     lipgloss.Color
	Border      lipgloss.Color
}

func build(primary, secondary, fg, muted, border, danger lipgloss.Color) Theme {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	return Theme{
		Primary:  primary,
		Border:   border,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtitle: lipgloss.NewStyle().Foreground(muted),
		Normal:   lipgloss.NewStyle().Foreground(fg),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(fg).
			Bold(true),
		Checked:     lipgloss.NewStyle().Foreground(secondary).Bold(true),
		Pane:        pane,
		FocusedPane: pane.BorderForeground(primary),
		Error:       lipgloss.NewStyle().Foreground(danger),
	}
}

// Default is the default theme.
var Default = build("#7c3aed", "#10b981", "#fafafa", "#737373", "#404040", "#ef4444")

// CatppuccinMocha is the Catppuccin Mocha palette.
var CatppuccinMocha = build("#cba6f7", "#a6e3a1", "#cdd6f4", "#6c7086", "#45475a", "#f38ba8")

// GetTheme returns a theme by name, falling back to Default.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
