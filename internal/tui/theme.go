package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/notifyd/internal/note"
)

// theme is the palette of the notification list.
type theme struct {
	Primary lipgloss.Color // selection, header

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	Border lipgloss.Color

	Low      lipgloss.Color
	Normal   lipgloss.Color
	Critical lipgloss.Color
	Error    lipgloss.Color
}

var defaultTheme = theme{
	Primary: lipgloss.Color("#a78bfa"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Border: lipgloss.Color("#585858"),

	Low:      lipgloss.Color("#42b883"),
	Normal:   lipgloss.Color("#f1a208"),
	Critical: lipgloss.Color("#ff5555"),
	Error:    lipgloss.Color("#ff5555"),
}

// styles are built once from the theme.
type styles struct {
	Header   lipgloss.Style
	Summary  lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Action   lipgloss.Style
	Error    lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
}

func (t theme) styles() styles {
	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	return styles{
		Header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Summary:  lipgloss.NewStyle().Foreground(t.FgBase).Bold(true),
		Body:     lipgloss.NewStyle().Foreground(t.FgBase),
		Muted:    lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:   lipgloss.NewStyle().Foreground(t.FgSubtle),
		Action:   lipgloss.NewStyle().Foreground(t.Primary),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
		Card:     card,
		Selected: card.BorderForeground(t.Primary),
	}
}

// urgencyStyle colors the urgency badge.
func (t theme) urgencyStyle(u note.Urgency) lipgloss.Style {
	c := t.Normal
	switch u {
	case note.UrgencyLow:
		c = t.Low
	case note.UrgencyCritical:
		c = t.Critical
	}
	return lipgloss.NewStyle().Foreground(c).Bold(u == note.UrgencyCritical)
}
