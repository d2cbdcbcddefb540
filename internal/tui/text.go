package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// sanitize drops control characters and invalid UTF-8 so that client
// supplied text cannot move the cursor or break the layout. Newlines are
// kept; tabs become a space.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\n':
			b.WriteRune(r)
		case r == '\t' || r == '\u00a0':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truncate shortens s to maxWidth cells, marking the cut with an ellipsis.
// Wide characters (CJK, emoji) count for two cells.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// bodyLines splits a body into at most maxLines lines of at most width
// cells. A body with more lines ends with an ellipsis line.
func bodyLines(body string, width, maxLines int) []string {
	body = strings.TrimSpace(sanitize(body))
	if body == "" || maxLines <= 0 {
		return nil
	}
	raw := strings.Split(body, "\n")
	lines := make([]string, 0, min(len(raw), maxLines))
	for i, l := range raw {
		if i == maxLines {
			lines[maxLines-1] = truncate(lines[maxLines-1]+" …", width)
			break
		}
		lines = append(lines, truncate(l, width))
	}
	return lines
}

// row places left and right on one line of exactly width cells.
func row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}
