package domain

import (
	"slices"
	"time"
)

type TransitionKind string

const (
	KindSchedule       TransitionKind = "schedule"
	KindReschedule     TransitionKind = "reschedule"
	KindRequestConfirm TransitionKind = "request_confirm"
	KindConfirm        TransitionKind = "confirm"
	KindComplete       TransitionKind = "complete"
	KindCancel         TransitionKind = "cancel"
	KindDecline        TransitionKind = "decline"
)

type transitionRule struct {
	from        []TaskStatus
	to          TaskStatus
	requireDate bool
	gateChecked bool
	recompute   bool
}

var nonTerminal = []TaskStatus{TaskUnscheduled, TaskScheduled, TaskPendingConfirm, TaskConfirmed}

var transitionRules = map[TransitionKind]transitionRule{
	KindSchedule: {
		from:        []TaskStatus{TaskUnscheduled},
		to:          TaskScheduled,
		requireDate: true,
		gateChecked: true,
		recompute:   true,
	},
	KindReschedule: {
		from:        []TaskStatus{TaskScheduled, TaskPendingConfirm, TaskConfirmed},
		to:          TaskScheduled,
		requireDate: true,
		gateChecked: true,
		recompute:   true,
	},
	KindRequestConfirm: {
		from: []TaskStatus{TaskScheduled},
		to:   TaskPendingConfirm,
	},
	KindConfirm: {
		from:        []TaskStatus{TaskPendingConfirm},
		to:          TaskConfirmed,
		gateChecked: true,
	},
	KindComplete: {
		from:        []TaskStatus{TaskScheduled, TaskPendingConfirm, TaskConfirmed},
		to:          TaskCompleted,
		gateChecked: true,
		recompute:   true,
	},
	// Cancel lands on unscheduled so the task can be scheduled again.
	// A permanent cancel lands on canceled instead; see ApplyTransition.
	KindCancel: {
		from:      nonTerminal,
		to:        TaskUnscheduled,
		recompute: true,
	},
	KindDecline: {
		from: []TaskStatus{TaskPendingConfirm},
		to:   TaskDeclined,
	},
}

// ValidTransitionKinds is the canonical set of accepted transition kind strings.
var ValidTransitionKinds = map[string]bool{
	"schedule": true, "reschedule": true, "request_confirm": true,
	"confirm": true, "complete": true, "cancel": true, "decline": true,
}

// GateChecked reports whether the transition must consult the gate engine.
// Whether a given gate actually applies is decided by its block mode.
func (k TransitionKind) GateChecked() bool {
	return transitionRules[k].gateChecked
}

// TriggersForecast reports whether the home forecast is recomputed after
// the transition is applied.
func (k TransitionKind) TriggersForecast() bool {
	return transitionRules[k].recompute
}

// TransitionRequest is a proposed status change for one task.
type TransitionRequest struct {
	Kind          TransitionKind
	ScheduledDate *time.Time
	ContractorID  *string
	// Permanent turns a cancel into a terminal cancel that removes the task
	// from the forecast graph.
	Permanent bool
}

// NextStatus returns the status a task in from would move to under req.
func NextStatus(from TaskStatus, req TransitionRequest) (TaskStatus, error) {
	rule, ok := transitionRules[req.Kind]
	if !ok {
		return "", invalidTransitionf("unknown transition kind %q", req.Kind)
	}
	if !slices.Contains(rule.from, from) {
		return "", invalidTransitionf("cannot %s a task that is %s", req.Kind, from)
	}
	if rule.requireDate && req.ScheduledDate == nil {
		return "", invalidTransitionf("%s requires a scheduled date", req.Kind)
	}
	if req.Kind == KindCancel && req.Permanent {
		return TaskCanceled, nil
	}
	return rule.to, nil
}

// ApplyTransition validates req against the task's current status and
// mutates the task. On error the task is unchanged.
func (t *HomeTask) ApplyTransition(req TransitionRequest, now time.Time) error {
	next, err := NextStatus(t.Status, req)
	if err != nil {
		return err
	}

	switch req.Kind {
	case KindSchedule, KindReschedule:
		d := *req.ScheduledDate
		t.ScheduledDate = &d
		if req.ContractorID != nil {
			c := *req.ContractorID
			t.ContractorID = &c
		}
	case KindComplete:
		t.CompletedAt = &now
	case KindCancel:
		t.ScheduledDate = nil
		t.ContractorID = nil
	}

	t.Status = next
	t.UpdatedAt = now
	return nil
}
