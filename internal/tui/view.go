package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const helpLine = "↑/↓ select · enter open · 1-9 action · d dismiss · D dismiss all · q quit"

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = m.maxBody + 4
	}
	inner := max(min(m.maxBody, width-4), 10)

	header := row(
		m.st.Header.Render("notifyd"),
		m.st.Muted.Render(fmt.Sprintf("%d active", len(m.cards))),
		inner+4,
	)
	footer := m.footer(inner + 4)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")

	if len(m.cards) == 0 {
		b.WriteString(m.st.Subtle.Render("No notifications"))
		b.WriteString("\n")
	} else {
		avail := 0
		if m.height > 0 {
			avail = m.height - lipgloss.Height(header) - 1 - lipgloss.Height(footer)
		}
		b.WriteString(m.renderCards(inner, avail))
	}

	b.WriteString(footer)
	return b.String()
}

// renderCards renders as many cards as fit in avail lines, scrolled so
// that the selected one is visible. avail <= 0 renders everything.
func (m Model) renderCards(inner, avail int) string {
	rendered := make([]string, len(m.cards))
	for i, c := range m.cards {
		rendered[i] = m.renderCard(c, inner, i == m.cursor)
	}
	if avail <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, rendered...) + "\n"
	}

	start := 0
	for start < m.cursor && heightOf(rendered[start:m.cursor+1]) > avail {
		start++
	}
	end := start
	used := 0
	for end < len(rendered) {
		h := lipgloss.Height(rendered[end])
		if used+h > avail && end > start {
			break
		}
		used += h
		end++
	}

	out := lipgloss.JoinVertical(lipgloss.Left, rendered[start:end]...) + "\n"
	if hidden := len(rendered) - (end - start); hidden > 0 {
		out += m.st.Subtle.Render(fmt.Sprintf("%d more", hidden)) + "\n"
	}
	return out
}

func heightOf(parts []string) int {
	h := 0
	for _, p := range parts {
		h += lipgloss.Height(p)
	}
	return h
}

func (m Model) renderCard(c card, inner int, selected bool) string {
	badge := m.th.urgencyStyle(c.Urgency).Render("●")
	app := c.App
	if app == "" {
		app = "unknown"
	}
	meta := fmt.Sprintf("#%d %s", c.ID, humanize.Time(c.ShownAt))
	if c.Resident {
		meta += " resident"
	}

	lines := []string{
		row(
			badge+" "+m.st.Muted.Render(truncate(app, inner/2)),
			m.st.Subtle.Render(meta),
			inner,
		),
		m.st.Summary.Render(truncate(c.Summary, inner)),
	}
	for _, l := range bodyLines(c.Body, inner, maxBodyLines) {
		lines = append(lines, m.st.Body.Render(l))
	}
	if len(c.Actions) > 0 {
		var parts []string
		for i, a := range c.Actions {
			if i == 9 {
				break
			}
			parts = append(parts, fmt.Sprintf("[%d] %s", i+1, sanitize(a.Label)))
		}
		lines = append(lines, m.st.Action.Render(truncate(strings.Join(parts, "  "), inner)))
	}

	style := m.st.Card
	if selected {
		style = m.st.Selected
	}
	return style.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) footer(width int) string {
	var lines []string
	if m.status != "" {
		style := m.st.Muted
		if m.statusErr {
			style = m.st.Error
		}
		lines = append(lines, style.Render(truncate(m.status, width)))
	}
	for _, l := range m.logTail {
		lines = append(lines, m.st.Subtle.Render(truncate(l, width)))
	}
	lines = append(lines, m.st.Subtle.Render(truncate(helpLine, width)))
	return strings.Join(lines, "\n")
}
