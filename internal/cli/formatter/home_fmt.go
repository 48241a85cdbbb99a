package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/domain"
)

// FormatHomeList renders every home with its forecast. Forecasts past the
// target are red.
func FormatHomeList(homes []*domain.Home) string {
	headers := []string{"LABEL", "START", "FORECAST", "TARGET", "ID"}
	rows := make([][]string, 0, len(homes))
	for _, h := range homes {
		forecast := Date(h.ForecastCompletionDate)
		if h.IsBehindTarget() {
			forecast = StyleRed.Render(forecast)
		}
		rows = append(rows, []string{
			Bold(h.Label),
			h.StartDate.Format(time.DateOnly),
			forecast,
			Date(h.TargetCompletionDate),
			TruncID(h.ID),
		})
	}
	return RenderBox("Homes", RenderTable(headers, rows))
}

// FormatHomeTasks renders a home's task list in sort order.
func FormatHomeTasks(home *domain.Home, tasks []*domain.HomeTask) string {
	headers := []string{"TASK", "STATUS", "SCHEDULED", "FORECAST", "PUNCH", "GATE", "ID"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		punch := Dim("--")
		if t.PunchOpenCount > 0 {
			punch = StyleRed.Render(fmt.Sprintf("%d open", t.PunchOpenCount))
		}
		gate := Dim("--")
		if t.IsCriticalGate {
			gate = StylePurple.Render(t.GateName)
		}
		rows = append(rows, []string{
			Bold(t.NameSnapshot),
			StatusPill(t.Status),
			Date(t.ScheduledDate),
			Date(t.ForecastDate),
			punch,
			gate,
			TruncID(t.ID),
		})
	}
	return RenderBox(home.Label, RenderTable(headers, rows))
}

// FormatForecast renders a forecast report: the summary, one line per task
// with its critical-path window, and the critical path itself.
func FormatForecast(r *contract.ForecastReport) string {
	var b strings.Builder

	completion := Date(r.CompletionDate)
	if r.CompletionDate != nil {
		completion += Dim(fmt.Sprintf("  (%d working days)", r.TotalWorkingDays))
	}
	target := Date(r.TargetCompletion)
	switch {
	case r.TargetCompletion == nil:
	case r.BehindTarget():
		target += "  " + StyleRed.Render("behind target")
	default:
		target += "  " + StyleGreen.Render("on target")
	}

	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("START     "), r.StartDate.Format(time.DateOnly))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("COMPLETION"), completion)
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("TARGET    "), target)
	if r.Slipped {
		b.WriteString(StyleRed.Render(fmt.Sprintf("Slipped %d working days from %s", r.SlipDays, Date(r.PreviousCompletion))) + "\n")
	}
	b.WriteString("\n")

	headers := []string{"TASK", "STATUS", "DAYS", "START", "FINISH", "LATEST FINISH", "SLACK", "CRITICAL"}
	rows := make([][]string, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		critical := ""
		if t.Critical {
			critical = StyleRed.Render("▲")
		}
		rows = append(rows, []string{
			Bold(t.Name),
			StatusPill(domain.TaskStatus(t.Status)),
			fmt.Sprintf("%d", t.DurationDays),
			t.EarliestStart.Format(time.DateOnly),
			t.EarliestFinish.Format(time.DateOnly),
			t.LatestFinish.Format(time.DateOnly),
			fmt.Sprintf("%d", t.SlackDays),
			critical,
		})
	}
	b.WriteString(RenderTable(headers, rows))

	if len(r.CriticalPath) > 0 {
		b.WriteString("\n" + Dim("Critical path: ") + strings.Join(r.CriticalPath, " → ") + "\n")
	}
	return RenderBox("Forecast: "+r.HomeLabel, b.String())
}
