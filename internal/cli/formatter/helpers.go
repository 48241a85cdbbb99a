package formatter

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var plain atomic.Bool

// SetPlain switches boxed output off, for pipes and redirected output.
func SetPlain(v bool) {
	plain.Store(v)
}

// RenderBox wraps content in a rounded-border box with an optional title.
// In plain mode the title becomes a header line and there is no border.
func RenderBox(title string, content string) string {
	content = strings.TrimRight(content, "\n")
	if plain.Load() {
		if title == "" {
			return content + "\n"
		}
		return Header(title) + "\n" + content + "\n"
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return boxStyle.Render(content) + "\n"
}

// Date renders a calendar date, or a dim dash when unset.
func Date(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format(time.DateOnly)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return Dim("--")
	}
	return *s
}
