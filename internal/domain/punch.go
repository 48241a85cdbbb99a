package domain

import "time"

// PunchItem is a defect or follow-up recorded against a home task.
type PunchItem struct {
	ID                string
	HomeID            string
	RelatedHomeTaskID string
	// Category links a punch item to every gate in the home sharing it.
	Category  *string
	Title     string
	Status    PunchStatus
	Severity  PunchSeverity
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks field-level constraints on a punch item.
func (p *PunchItem) Validate() error {
	if p.RelatedHomeTaskID == "" {
		return validationf("punch item must reference a task")
	}
	if p.Title == "" {
		return validationf("punch item title is required")
	}
	if !ValidPunchSeverities[string(p.Severity)] {
		return validationf("invalid punch severity %q", p.Severity)
	}
	return nil
}

// MarkReadyForReview moves an open punch item to review. It still counts
// against its gate until closed.
func (p *PunchItem) MarkReadyForReview(now time.Time) error {
	if p.Status != PunchOpen {
		return validationf("punch item %s is %s, only open items can move to review", p.ID, p.Status)
	}
	p.Status = PunchReadyForReview
	p.UpdatedAt = now
	return nil
}

// Close marks the punch item closed. Closing an already closed item is a no-op.
func (p *PunchItem) Close(now time.Time) {
	if p.Status == PunchClosed {
		return
	}
	p.Status = PunchClosed
	p.ClosedAt = &now
	p.UpdatedAt = now
}

// Reopen returns a closed punch item to open.
func (p *PunchItem) Reopen(now time.Time) error {
	if p.Status != PunchClosed {
		return validationf("punch item %s is %s, only closed items can be reopened", p.ID, p.Status)
	}
	p.Status = PunchOpen
	p.ClosedAt = nil
	p.UpdatedAt = now
	return nil
}
