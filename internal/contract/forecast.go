package contract

import "time"

type TaskForecastLine struct {
	TaskID         string
	Name           string
	Status         string
	DurationDays   int
	EarliestStart  time.Time
	EarliestFinish time.Time
	LatestStart    time.Time
	LatestFinish   time.Time
	SlackDays      int
	Critical       bool
}

type ForecastReport struct {
	HomeID             string
	HomeLabel          string
	StartDate          time.Time
	PreviousCompletion *time.Time
	CompletionDate     *time.Time
	TargetCompletion   *time.Time
	TotalWorkingDays   int
	Slipped            bool
	SlipDays           int
	Tasks              []TaskForecastLine
	// CriticalPath lists task names in topological order.
	CriticalPath []string
}

// BehindTarget reports whether the forecast lands after the target date.
func (r *ForecastReport) BehindTarget() bool {
	if r.CompletionDate == nil || r.TargetCompletion == nil {
		return false
	}
	return r.CompletionDate.After(*r.TargetCompletion)
}
