package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/google/uuid"
)

type punchService struct {
	uow      db.UnitOfWork
	locks    *HomeLocks
	observer UseCaseObserver
	now      func() time.Time
}

func NewPunchService(uow db.UnitOfWork, locks *HomeLocks, observers ...UseCaseObserver) PunchService {
	return &punchService{
		uow:      uow,
		locks:    locksOrNew(locks),
		observer: useCaseObserverOrNoop(observers),
		now:      utcNow,
	}
}

// Open records a punch item against a task. The item inherits the task's
// category unless one is given, so it also counts toward gates in that
// category.
func (s *punchService) Open(ctx context.Context, req OpenPunchRequest) (p *domain.PunchItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": req.TaskID}
	defer func() { observe(ctx, s.observer, "punch-open", startedAt, fields, err) }()

	task, err := s.task(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	fields["home_id"] = task.HomeID

	now := s.now()
	p = &domain.PunchItem{
		ID:                uuid.New().String(),
		HomeID:            task.HomeID,
		RelatedHomeTaskID: task.ID,
		Category:          task.CategorySnapshot,
		Title:             strings.TrimSpace(req.Title),
		Status:            domain.PunchOpen,
		Severity:          req.Severity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Category != nil {
		c := *req.Category
		p.Category = &c
	}
	if p.Severity == "" {
		p.Severity = domain.SeverityMedium
	}
	if err = p.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(task.HomeID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return newTxRepos(tx).punch.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	fields["punch_id"] = p.ID
	return p, nil
}

func (s *punchService) ReadyForReview(ctx context.Context, id string) (*domain.PunchItem, error) {
	return s.update(ctx, "punch-ready-for-review", id, func(p *domain.PunchItem, now time.Time) error {
		return p.MarkReadyForReview(now)
	})
}

// Close never touches task state. A gate unblocks once its open count
// reaches zero.
func (s *punchService) Close(ctx context.Context, id string) (*domain.PunchItem, error) {
	return s.update(ctx, "punch-close", id, func(p *domain.PunchItem, now time.Time) error {
		p.Close(now)
		return nil
	})
}

func (s *punchService) Reopen(ctx context.Context, id string) (*domain.PunchItem, error) {
	return s.update(ctx, "punch-reopen", id, func(p *domain.PunchItem, now time.Time) error {
		return p.Reopen(now)
	})
}

func (s *punchService) ListByHome(ctx context.Context, homeID string, openOnly bool) ([]*domain.PunchItem, error) {
	var items []*domain.PunchItem
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.homes.GetByID(ctx, homeID); err != nil {
			return err
		}
		var err error
		items, err = r.punch.ListByHome(ctx, homeID, openOnly)
		return err
	})
	return items, err
}

func (s *punchService) ListByTask(ctx context.Context, taskID string) ([]*domain.PunchItem, error) {
	var items []*domain.PunchItem
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.tasks.GetByID(ctx, taskID); err != nil {
			return err
		}
		var err error
		items, err = r.punch.ListByTask(ctx, taskID)
		return err
	})
	return items, err
}

func (s *punchService) task(ctx context.Context, id string) (*domain.HomeTask, error) {
	var task *domain.HomeTask
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		task, err = newTxRepos(tx).tasks.GetByID(ctx, id)
		return err
	})
	return task, err
}

// update applies fn to a punch item under its home's lock.
func (s *punchService) update(ctx context.Context, name, id string, fn func(*domain.PunchItem, time.Time) error) (p *domain.PunchItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"punch_id": id}
	defer func() { observe(ctx, s.observer, name, startedAt, fields, err) }()

	homeID, err := s.homeOf(ctx, id)
	if err != nil {
		return nil, err
	}
	fields["home_id"] = homeID

	unlock := s.locks.Lock(homeID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		item, err := r.punch.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(item, s.now()); err != nil {
			return err
		}
		if err := r.punch.Update(ctx, item); err != nil {
			return err
		}
		p = item
		fields["status"] = string(item.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *punchService) homeOf(ctx context.Context, punchID string) (string, error) {
	var homeID string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := newTxRepos(tx).punch.GetByID(ctx, punchID)
		if err != nil {
			return err
		}
		homeID = p.HomeID
		return nil
	})
	return homeID, err
}
