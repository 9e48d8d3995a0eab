package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Toast    lipgloss.Style
	Error    lipgloss.Style

	BarFull  lipgloss.Style
	BarEmpty lipgloss.Style

	Passed lipgloss.Style
	Failed lipgloss.Style
	Open   lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Toast: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),

		BarFull:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		BarEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),

		Passed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failed: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Open:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func (t Theme) status(s string) lipgloss.Style {
	switch s {
	case "passed":
		return t.Passed
	case "failed":
		return t.Failed
	default:
		return t.Open
	}
}
