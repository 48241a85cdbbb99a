package domain

type TaskStatus string

const (
	TaskUnscheduled    TaskStatus = "unscheduled"
	TaskScheduled      TaskStatus = "scheduled"
	TaskPendingConfirm TaskStatus = "pending_confirm"
	TaskConfirmed      TaskStatus = "confirmed"
	TaskCompleted      TaskStatus = "completed"
	TaskCanceled       TaskStatus = "canceled"
	TaskDeclined       TaskStatus = "declined"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"unscheduled": true, "scheduled": true, "pending_confirm": true,
	"confirmed": true, "completed": true, "canceled": true, "declined": true,
}

type GateScope string

const (
	GateScopeDownstreamOnly GateScope = "downstream_only"
	GateScopeAll            GateScope = "all"
)

// ValidGateScopes is the canonical set of accepted gate scope strings.
var ValidGateScopes = map[string]bool{
	"downstream_only": true, "all": true,
}

type GateBlockMode string

const (
	GateBlockScheduleOnly       GateBlockMode = "schedule_only"
	GateBlockScheduleAndConfirm GateBlockMode = "schedule_and_confirm"
	GateBlockAll                GateBlockMode = "all"
)

// ValidGateBlockModes is the canonical set of accepted gate block mode strings.
var ValidGateBlockModes = map[string]bool{
	"schedule_only": true, "schedule_and_confirm": true, "all": true,
}

// Blocks reports whether a gate in this mode applies to the given transition.
func (m GateBlockMode) Blocks(kind TransitionKind) bool {
	switch kind {
	case KindSchedule, KindReschedule:
		return true
	case KindConfirm:
		return m == GateBlockScheduleAndConfirm || m == GateBlockAll
	case KindComplete:
		return m == GateBlockAll
	default:
		return false
	}
}

type PunchStatus string

const (
	PunchOpen           PunchStatus = "open"
	PunchReadyForReview PunchStatus = "ready_for_review"
	PunchClosed         PunchStatus = "closed"
)

// IsOpen reports whether a punch item still counts against its gate.
func (s PunchStatus) IsOpen() bool {
	return s == PunchOpen || s == PunchReadyForReview
}

type PunchSeverity string

const (
	SeverityLow      PunchSeverity = "low"
	SeverityMedium   PunchSeverity = "medium"
	SeverityHigh     PunchSeverity = "high"
	SeverityCritical PunchSeverity = "critical"
)

// ValidPunchSeverities is the canonical set of accepted severity strings.
var ValidPunchSeverities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}
