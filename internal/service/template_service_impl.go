package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/importer"
	"github.com/alexanderramin/homeplan/internal/scheduler"
	"github.com/google/uuid"
)

type templateService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
	// mu serializes dependency edits so two acyclic proposals cannot
	// combine into a cycle.
	mu sync.Mutex
}

func NewTemplateService(uow db.UnitOfWork, observers ...UseCaseObserver) TemplateService {
	return &templateService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) CreateItem(ctx context.Context, item *domain.TemplateItem) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"name": item.Name}
	defer func() { observe(ctx, s.observer, "template-item-create", startedAt, fields, err) }()

	item.ApplyDefaults()
	if err = item.Validate(); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := utcNow()
	item.CreatedAt, item.UpdatedAt = now, now
	fields["item_id"] = item.ID

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return newTxRepos(tx).items.Create(ctx, item)
	})
}

// UpdateItem edits the template. Homes keep their name, duration, sort order
// and category snapshots; gate settings take effect in every home.
func (s *templateService) UpdateItem(ctx context.Context, item *domain.TemplateItem) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": item.ID}
	defer func() { observe(ctx, s.observer, "template-item-update", startedAt, fields, err) }()

	item.ApplyDefaults()
	if err = item.Validate(); err != nil {
		return err
	}
	item.UpdatedAt = utcNow()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return newTxRepos(tx).items.Update(ctx, item)
	})
}

func (s *templateService) DeleteItem(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": id}
	defer func() { observe(ctx, s.observer, "template-item-delete", startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		refs, err := r.items.CountTaskRefs(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			fields["task_refs"] = refs
			return fmt.Errorf("%w: template item %s is used by %d home tasks", domain.ErrItemInUse, id, refs)
		}
		return r.items.Delete(ctx, id)
	})
}

func (s *templateService) GetItem(ctx context.Context, id string) (*domain.TemplateItem, error) {
	var item *domain.TemplateItem
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		item, err = newTxRepos(tx).items.GetByID(ctx, id)
		return err
	})
	return item, err
}

func (s *templateService) ListItems(ctx context.Context) ([]*domain.TemplateItem, error) {
	var items []*domain.TemplateItem
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		items, err = newTxRepos(tx).items.List(ctx)
		return err
	})
	return items, err
}

func (s *templateService) ListDependencies(ctx context.Context) ([]domain.TemplateDependency, error) {
	var deps []domain.TemplateDependency
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		deps, err = newTxRepos(tx).deps.ListAll(ctx)
		return err
	})
	return deps, err
}

func (s *templateService) SetDependencies(ctx context.Context, itemID string, dependsOn []string) (deps []domain.TemplateDependency, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": itemID, "depends_on": len(dependsOn)}
	defer func() { observe(ctx, s.observer, "template-set-dependencies", startedAt, fields, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		graph, err := loadDependencyGraph(ctx, r)
		if err != nil {
			return err
		}
		proposed, err := graph.SetDependencies(itemID, dependsOn)
		if err != nil {
			var cycle *domain.CycleError
			if errors.As(err, &cycle) {
				fields["cycle"] = cycle.Names
			}
			return err
		}

		ids := make([]string, len(proposed))
		for i, e := range proposed {
			ids[i] = e.From
			deps = append(deps, domain.TemplateDependency{DependsOnItemID: e.From, TemplateItemID: e.To})
		}
		return r.deps.ReplaceForItem(ctx, itemID, ids)
	})
	if err != nil {
		return nil, err
	}
	return deps, nil
}

func (s *templateService) Import(ctx context.Context, schema *importer.TemplateSchema) (res *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"items": len(schema.Items)}
	defer func() { observe(ctx, s.observer, "template-import", startedAt, fields, err) }()

	if errs := importer.ValidateTemplateSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("%w: invalid template file: %w", domain.ErrValidation, errors.Join(errs...))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		existing, err := r.items.List(ctx)
		if err != nil {
			return err
		}
		base := 0
		for _, it := range existing {
			base = max(base, it.SortOrder)
		}

		converted := importer.Convert(schema, base)

		// Check the merged graph before writing anything.
		graph, err := loadDependencyGraph(ctx, r, converted.Items...)
		if err != nil {
			return err
		}
		byItem := make(map[string][]string)
		for _, d := range converted.Dependencies {
			byItem[d.TemplateItemID] = append(byItem[d.TemplateItemID], d.DependsOnItemID)
		}
		for _, item := range converted.Items {
			if _, err := graph.SetDependencies(item.ID, byItem[item.ID]); err != nil {
				return err
			}
		}

		for _, item := range converted.Items {
			if err := r.items.Create(ctx, item); err != nil {
				return err
			}
		}
		for _, item := range converted.Items {
			if deps := byItem[item.ID]; len(deps) > 0 {
				if err := r.deps.ReplaceForItem(ctx, item.ID, deps); err != nil {
					return err
				}
			}
		}

		res = &ImportResult{
			ItemCount:       len(converted.Items),
			DependencyCount: len(converted.Dependencies),
			RefToID:         converted.RefToID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["dependencies"] = res.DependencyCount
	return res, nil
}

// loadDependencyGraph builds the template graph from the database plus any
// extra items not yet persisted.
func loadDependencyGraph(ctx context.Context, r txRepos, extra ...*domain.TemplateItem) (*scheduler.DependencyGraph, error) {
	items, err := r.items.List(ctx)
	if err != nil {
		return nil, err
	}
	deps, err := r.deps.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]scheduler.Node, 0, len(items)+len(extra))
	for _, it := range append(items, extra...) {
		nodes = append(nodes, scheduler.Node{ID: it.ID, Name: it.Name})
	}
	edges := make([]scheduler.Edge, len(deps))
	for i, d := range deps {
		edges[i] = scheduler.Edge{From: d.DependsOnItemID, To: d.TemplateItemID}
	}
	return scheduler.NewDependencyGraph(nodes, edges), nil
}
