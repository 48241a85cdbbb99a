package domain

import "time"

// HomeTask is a per-home snapshot of a template item. The snapshot fields
// are copied once at creation and never re-synced from the template.
// Gate metadata is not a snapshot: it follows the template item.
type HomeTask struct {
	ID                   string
	HomeID               string
	TemplateItemID       string
	NameSnapshot         string
	DurationDaysSnapshot int
	SortOrderSnapshot    int
	CategorySnapshot     *string

	// Gate metadata, read from the template item.
	IsCriticalGate bool
	GateScope      GateScope
	GateBlockMode  GateBlockMode
	GateName       string

	Status        TaskStatus
	ScheduledDate *time.Time
	ContractorID  *string
	CompletedAt   *time.Time

	// Derived
	ForecastDate   *time.Time
	PunchOpenCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewHomeTaskFromTemplate snapshots item into a new unscheduled task.
func NewHomeTaskFromTemplate(id, homeID string, item *TemplateItem, now time.Time) *HomeTask {
	return &HomeTask{
		ID:                   id,
		HomeID:               homeID,
		TemplateItemID:       item.ID,
		NameSnapshot:         item.Name,
		DurationDaysSnapshot: item.DurationDays,
		SortOrderSnapshot:    item.SortOrder,
		CategorySnapshot:     item.Category,
		IsCriticalGate:       item.IsCriticalGate,
		GateScope:            item.GateScope,
		GateBlockMode:        item.GateBlockMode,
		GateName:             item.DisplayGateName(),
		Status:               TaskUnscheduled,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// IsTerminal reports whether the task accepts no further transitions
// other than those explicitly listed for terminal states.
func (t *HomeTask) IsTerminal() bool {
	switch t.Status {
	case TaskCompleted, TaskCanceled, TaskDeclined:
		return true
	default:
		return false
	}
}

// InForecast reports whether the task is a node of the home's forecast graph.
func (t *HomeTask) InForecast() bool {
	return t.Status != TaskCanceled
}

// RepairInconsistentState downgrades a scheduled task without a date back to
// unscheduled. Returns true when a repair was applied.
func (t *HomeTask) RepairInconsistentState(now time.Time) bool {
	if t.Status == TaskScheduled && t.ScheduledDate == nil {
		t.Status = TaskUnscheduled
		t.UpdatedAt = now
		return true
	}
	return false
}
