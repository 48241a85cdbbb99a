package testutil

import (
	"time"

	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/google/uuid"
)

// Monday is the fixed start date used by date-sensitive fixtures.
var Monday = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// TemplateItem options
type TemplateItemOption func(*domain.TemplateItem)

func WithDuration(days int) TemplateItemOption {
	return func(t *domain.TemplateItem) {
		t.DurationDays = days
	}
}

func WithSortOrder(order int) TemplateItemOption {
	return func(t *domain.TemplateItem) {
		t.SortOrder = order
	}
}

func WithCategory(category string) TemplateItemOption {
	return func(t *domain.TemplateItem) {
		t.Category = &category
	}
}

func WithItemID(id string) TemplateItemOption {
	return func(t *domain.TemplateItem) {
		t.ID = id
	}
}

// WithGate marks the item as a critical gate with the given scope and mode.
func WithGate(scope domain.GateScope, mode domain.GateBlockMode) TemplateItemOption {
	return func(t *domain.TemplateItem) {
		t.IsCriticalGate = true
		t.GateScope = scope
		t.GateBlockMode = mode
	}
}

func WithGateName(name string) TemplateItemOption {
	return func(t *domain.TemplateItem) {
		t.GateName = &name
	}
}

func NewTestTemplateItem(name string, opts ...TemplateItemOption) *domain.TemplateItem {
	ts := now()
	t := &domain.TemplateItem{
		ID:            uuid.New().String(),
		Name:          name,
		DurationDays:  1,
		GateScope:     domain.GateScopeDownstreamOnly,
		GateBlockMode: domain.GateBlockScheduleOnly,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Home options
type HomeOption func(*domain.Home)

func WithStartDate(d time.Time) HomeOption {
	return func(h *domain.Home) {
		h.StartDate = d
	}
}

func WithTargetCompletion(d time.Time) HomeOption {
	return func(h *domain.Home) {
		h.TargetCompletionDate = &d
	}
}

func NewTestHome(label string, opts ...HomeOption) *domain.Home {
	ts := now()
	h := &domain.Home{
		ID:        uuid.New().String(),
		Label:     label,
		StartDate: Monday,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HomeTask options
type HomeTaskOption func(*domain.HomeTask)

func WithStatus(s domain.TaskStatus) HomeTaskOption {
	return func(t *domain.HomeTask) {
		t.Status = s
	}
}

func WithScheduledDate(d time.Time) HomeTaskOption {
	return func(t *domain.HomeTask) {
		t.ScheduledDate = &d
	}
}

// NewTestHomeTask snapshots item into a task for home.
func NewTestHomeTask(homeID string, item *domain.TemplateItem, opts ...HomeTaskOption) *domain.HomeTask {
	t := domain.NewHomeTaskFromTemplate(uuid.New().String(), homeID, item, now())
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PunchItem options
type PunchOption func(*domain.PunchItem)

func WithPunchCategory(category string) PunchOption {
	return func(p *domain.PunchItem) {
		p.Category = &category
	}
}

func WithPunchStatus(s domain.PunchStatus) PunchOption {
	return func(p *domain.PunchItem) {
		p.Status = s
	}
}

func WithSeverity(s domain.PunchSeverity) PunchOption {
	return func(p *domain.PunchItem) {
		p.Severity = s
	}
}

func NewTestPunch(homeID, taskID, title string, opts ...PunchOption) *domain.PunchItem {
	ts := now()
	p := &domain.PunchItem{
		ID:                uuid.New().String(),
		HomeID:            homeID,
		RelatedHomeTaskID: taskID,
		Title:             title,
		Status:            domain.PunchOpen,
		Severity:          domain.SeverityMedium,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.Status == domain.PunchClosed && p.ClosedAt == nil {
		p.ClosedAt = &ts
	}
	return p
}
