package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/homeplan/internal/contract"
)

// FormatTransition renders the outcome of a task transition.
func FormatTransition(res *contract.TransitionResult) string {
	if !res.Accepted() {
		return FormatRejection(res.Rejection)
	}

	var b strings.Builder
	t := res.Task
	line := fmt.Sprintf("%s %s: %s → %s", StyleGreen.Render("✔"), Bold(t.NameSnapshot),
		strings.ReplaceAll(string(res.PreviousStatus), "_", " "), StatusPill(t.Status))
	if t.ScheduledDate != nil {
		line += " on " + Date(t.ScheduledDate)
	}
	b.WriteString(line + "\n")

	if f := res.Forecast; f != nil {
		fmt.Fprintf(&b, "%s %s", Dim("Forecast completion:"), Date(f.CompletionDate))
		if f.Slipped {
			b.WriteString(" " + StyleRed.Render(fmt.Sprintf("(slipped %d working days)", f.SlipDays)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRejection explains why a request was refused.
func FormatRejection(r *contract.Rejection) string {
	switch r.Code {
	case contract.RejectGateBlocked:
		return fmt.Sprintf("%s Blocked by gate %q with %d open punch items\n",
			StyleRed.Render("✖"), r.BlockingGateName, r.OpenPunchCount)
	case contract.RejectCycleDetected:
		return fmt.Sprintf("%s Dependency cycle: %s\n", StyleRed.Render("✖"), strings.Join(r.CycleNames, ", "))
	default:
		return fmt.Sprintf("%s %s\n", StyleRed.Render("✖"), r.Message)
	}
}

// FormatGateCheck renders a read-only gate check.
func FormatGateCheck(resp *contract.GateCheckResponse) string {
	head := fmt.Sprintf("Gate check for %s at sort order %d (%d gates evaluated)\n",
		resp.Kind, resp.SortOrder, resp.GatesEvaluated)
	if !resp.IsBlocked {
		return head + StyleGreen.Render("✔") + " Not blocked\n"
	}
	return head + FormatRejection(contract.NewGateRejection(resp.BlockingGateName, resp.BlockingTaskID, resp.OpenPunchCount))
}
