package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title          lipgloss.Style
	State          lipgloss.Style
	ButtonEnabled  lipgloss.Style
	ButtonDisabled lipgloss.Style
	ToggleOn       lipgloss.Style
	ToggleOff      lipgloss.Style
	Cursor         lipgloss.Style
	Selected       lipgloss.Style
	Muted          lipgloss.Style
	Panel          lipgloss.Style
	StatusInfo     lipgloss.Style
	StatusError    lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{
			Title:          plain.Bold(true),
			State:          plain,
			ButtonEnabled:  plain.Bold(true),
			ButtonDisabled: plain.Faint(true),
			ToggleOn:       plain.Bold(true),
			ToggleOff:      plain,
			Cursor:         plain.Reverse(true),
			Selected:       plain.Bold(true),
			Muted:          plain.Faint(true),
			Panel:          plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			StatusInfo:     plain,
			StatusError:    plain.Bold(true),
		}
	}

	accent := lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79FF"}
	muted := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	return styles{
		Title:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(accent).Padding(0, 1),
		State:          lipgloss.NewStyle().Foreground(accent).Bold(true),
		ButtonEnabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(accent).Padding(0, 1),
		ButtonDisabled: lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		ToggleOn:       lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		ToggleOff:      lipgloss.NewStyle().Foreground(muted),
		Cursor:         lipgloss.NewStyle().Foreground(accent).Bold(true),
		Selected:       lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Muted:          lipgloss.NewStyle().Foreground(muted),
		Panel:          lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
		StatusInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
	}
}
