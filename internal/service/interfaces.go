package service

import (
	"context"
	"time"

	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/importer"
)

type TemplateService interface {
	CreateItem(ctx context.Context, item *domain.TemplateItem) error
	UpdateItem(ctx context.Context, item *domain.TemplateItem) error
	// DeleteItem fails with domain.ErrItemInUse while any home task was
	// snapshotted from the item.
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*domain.TemplateItem, error)
	ListItems(ctx context.Context) ([]*domain.TemplateItem, error)
	// SetDependencies atomically replaces the dependency set of itemID.
	// A cycle is returned as *domain.CycleError and nothing is written.
	SetDependencies(ctx context.Context, itemID string, dependsOn []string) ([]domain.TemplateDependency, error)
	ListDependencies(ctx context.Context) ([]domain.TemplateDependency, error)
	Import(ctx context.Context, schema *importer.TemplateSchema) (*ImportResult, error)
}

type ImportResult struct {
	ItemCount       int
	DependencyCount int
	RefToID         map[string]string
}

type CreateHomeRequest struct {
	Label            string
	StartDate        time.Time
	TargetCompletion *time.Time
}

type HomeService interface {
	// CreateHome snapshots the current template into a new home and
	// computes its initial forecast.
	CreateHome(ctx context.Context, req CreateHomeRequest) (*domain.Home, *contract.ForecastReport, error)
	GetHome(ctx context.Context, id string) (*domain.Home, error)
	ListHomes(ctx context.Context) ([]*domain.Home, error)
	// ListTasks repairs inconsistent task states it encounters.
	ListTasks(ctx context.Context, homeID string) ([]*domain.HomeTask, error)
	RecomputeForecast(ctx context.Context, homeID string) (*contract.ForecastReport, error)
}

type TaskService interface {
	GetTask(ctx context.Context, id string) (*domain.HomeTask, error)
	// Transition applies one state machine transition. A gate rejection is
	// returned in the result, not as an error.
	Transition(ctx context.Context, req contract.TransitionRequest) (*contract.TransitionResult, error)
	Schedule(ctx context.Context, taskID string, date time.Time, contractorID *string) (*contract.TransitionResult, error)
	Reschedule(ctx context.Context, taskID string, date time.Time, contractorID *string) (*contract.TransitionResult, error)
	RequestConfirmation(ctx context.Context, taskID string) (*contract.TransitionResult, error)
	Confirm(ctx context.Context, taskID string) (*contract.TransitionResult, error)
	Complete(ctx context.Context, taskID string) (*contract.TransitionResult, error)
	Cancel(ctx context.Context, taskID string, permanent bool) (*contract.TransitionResult, error)
	Decline(ctx context.Context, taskID string) (*contract.TransitionResult, error)
}

type GateService interface {
	Check(ctx context.Context, req contract.GateCheckRequest) (*contract.GateCheckResponse, error)
}

type OpenPunchRequest struct {
	TaskID string
	Title  string
	// Category defaults to the task's category.
	Category *string
	Severity domain.PunchSeverity
}

type PunchService interface {
	Open(ctx context.Context, req OpenPunchRequest) (*domain.PunchItem, error)
	ReadyForReview(ctx context.Context, id string) (*domain.PunchItem, error)
	Close(ctx context.Context, id string) (*domain.PunchItem, error)
	Reopen(ctx context.Context, id string) (*domain.PunchItem, error)
	ListByHome(ctx context.Context, homeID string, openOnly bool) ([]*domain.PunchItem, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.PunchItem, error)
}
