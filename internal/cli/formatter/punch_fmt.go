package formatter

import (
	"fmt"

	"github.com/alexanderramin/homeplan/internal/domain"
)

// FormatPunchList renders punch items. taskNames maps task ids to names
// for the TASK column; unknown ids fall back to the short id.
func FormatPunchList(items []*domain.PunchItem, taskNames map[string]string) string {
	headers := []string{"TITLE", "STATUS", "SEVERITY", "CATEGORY", "TASK", "ID"}
	rows := make([][]string, 0, len(items))
	for _, p := range items {
		task, ok := taskNames[p.RelatedHomeTaskID]
		if !ok {
			task = TruncID(p.RelatedHomeTaskID)
		}
		rows = append(rows, []string{
			Bold(p.Title),
			PunchStatusPill(p.Status),
			SeverityBadge(p.Severity),
			orDash(p.Category),
			task,
			TruncID(p.ID),
		})
	}
	return RenderBox("Punch list", RenderTable(headers, rows))
}

// FormatPunch renders one punch item on a single line.
func FormatPunch(p *domain.PunchItem) string {
	return fmt.Sprintf("%s %s [%s] %s\n", PunchStatusPill(p.Status), Bold(p.Title), SeverityBadge(p.Severity), TruncID(p.ID))
}
