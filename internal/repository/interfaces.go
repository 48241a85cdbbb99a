package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/homeplan/internal/domain"
)

type TemplateItemRepo interface {
	Create(ctx context.Context, item *domain.TemplateItem) error
	GetByID(ctx context.Context, id string) (*domain.TemplateItem, error)
	List(ctx context.Context) ([]*domain.TemplateItem, error)
	Update(ctx context.Context, item *domain.TemplateItem) error
	Delete(ctx context.Context, id string) error
	// CountTaskRefs counts home tasks snapshotted from the item.
	CountTaskRefs(ctx context.Context, id string) (int, error)
}

type DependencyRepo interface {
	ListAll(ctx context.Context) ([]domain.TemplateDependency, error)
	ListForItem(ctx context.Context, itemID string) ([]domain.TemplateDependency, error)
	// ReplaceForItem swaps the full dependency set of itemID.
	ReplaceForItem(ctx context.Context, itemID string, dependsOn []string) error
}

type HomeRepo interface {
	Create(ctx context.Context, h *domain.Home) error
	GetByID(ctx context.Context, id string) (*domain.Home, error)
	List(ctx context.Context) ([]*domain.Home, error)
	UpdateForecast(ctx context.Context, id string, forecast *time.Time) error
}

type HomeTaskRepo interface {
	Create(ctx context.Context, t *domain.HomeTask) error
	GetByID(ctx context.Context, id string) (*domain.HomeTask, error)
	ListByHome(ctx context.Context, homeID string) ([]*domain.HomeTask, error)
	Update(ctx context.Context, t *domain.HomeTask) error
	UpdateForecast(ctx context.Context, id string, forecast *time.Time) error
	// ListGates returns the home's critical-gate tasks with their live
	// open punch counts.
	ListGates(ctx context.Context, homeID string) ([]GateRow, error)
}

type PunchItemRepo interface {
	Create(ctx context.Context, p *domain.PunchItem) error
	GetByID(ctx context.Context, id string) (*domain.PunchItem, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.PunchItem, error)
	ListByHome(ctx context.Context, homeID string, openOnly bool) ([]*domain.PunchItem, error)
	Update(ctx context.Context, p *domain.PunchItem) error
	// CountOpenForGate counts open or ready-for-review punch items linked to
	// the gate task directly or through a shared category.
	CountOpenForGate(ctx context.Context, homeID, taskID string, category *string) (int, error)
}

// GateRow is a critical-gate task joined with its open punch count.
type GateRow struct {
	TaskID         string
	GateName       string
	SortOrder      int
	Category       *string
	Scope          domain.GateScope
	BlockMode      domain.GateBlockMode
	OpenPunchCount int
}
