package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusColor returns the style for a task status.
func StatusColor(s domain.TaskStatus) lipgloss.Style {
	switch s {
	case domain.TaskScheduled, domain.TaskPendingConfirm:
		return StyleBlue
	case domain.TaskConfirmed:
		return StyleGreen
	case domain.TaskDeclined:
		return StyleRed
	default:
		return StyleDim
	}
}

// StatusPill renders a task status such as "● scheduled".
func StatusPill(s domain.TaskStatus) string {
	var icon string
	switch s {
	case domain.TaskUnscheduled:
		icon = "○"
	case domain.TaskCompleted:
		icon = "✔"
	case domain.TaskCanceled, domain.TaskDeclined:
		icon = "✖"
	default:
		icon = "●"
	}
	return StatusColor(s).Render(icon + " " + strings.ReplaceAll(string(s), "_", " "))
}

// SeverityBadge renders a punch severity in upper case.
func SeverityBadge(s domain.PunchSeverity) string {
	label := strings.ToUpper(string(s))
	switch s {
	case domain.SeverityCritical:
		return StyleRed.Bold(true).Render(label)
	case domain.SeverityHigh:
		return StyleRed.Render(label)
	case domain.SeverityMedium:
		return StyleYellow.Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// PunchStatusPill renders a punch item status.
func PunchStatusPill(s domain.PunchStatus) string {
	switch s {
	case domain.PunchOpen:
		return StyleRed.Render("● open")
	case domain.PunchReadyForReview:
		return StyleYellow.Render("◐ ready for review")
	case domain.PunchClosed:
		return StyleDim.Render("✔ closed")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
