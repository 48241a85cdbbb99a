package domain

import "time"

type Home struct {
	ID    string
	Label string
	// StartDate is the date root tasks start on.
	StartDate time.Time
	// ForecastCompletionDate is derived by the forecast engine.
	ForecastCompletionDate *time.Time
	// TargetCompletionDate is supplied externally and never changed here.
	TargetCompletionDate *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsBehindTarget reports whether the forecast lands after the target date.
func (h *Home) IsBehindTarget() bool {
	if h.ForecastCompletionDate == nil || h.TargetCompletionDate == nil {
		return false
	}
	return h.ForecastCompletionDate.After(*h.TargetCompletionDate)
}
