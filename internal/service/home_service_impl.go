package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/notify"
	"github.com/alexanderramin/homeplan/internal/scheduler"
	"github.com/google/uuid"
)

type homeService struct {
	uow      db.UnitOfWork
	calendar scheduler.Calendar
	locks    *HomeLocks
	events   *notify.Dispatcher
	observer UseCaseObserver
	now      func() time.Time
}

func NewHomeService(
	uow db.UnitOfWork,
	calendar scheduler.Calendar,
	locks *HomeLocks,
	events *notify.Dispatcher,
	observers ...UseCaseObserver,
) HomeService {
	return &homeService{
		uow:      uow,
		calendar: calendar,
		locks:    locksOrNew(locks),
		events:   events,
		observer: useCaseObserverOrNoop(observers),
		now:      utcNow,
	}
}

func (s *homeService) CreateHome(ctx context.Context, req CreateHomeRequest) (home *domain.Home, report *contract.ForecastReport, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"label": req.Label}
	defer func() { observe(ctx, s.observer, "home-create", startedAt, fields, err) }()

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, nil, fmt.Errorf("%w: home label is required", domain.ErrValidation)
	}
	if req.StartDate.IsZero() {
		return nil, nil, fmt.Errorf("%w: home start date is required", domain.ErrValidation)
	}
	now := s.now()
	home = &domain.Home{
		ID:        uuid.New().String(),
		Label:     label,
		StartDate: dateOnly(req.StartDate),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.TargetCompletion != nil {
		target := dateOnly(*req.TargetCompletion)
		home.TargetCompletionDate = &target
	}
	fields["home_id"] = home.ID

	unlock := s.locks.Lock(home.ID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		items, err := r.items.List(ctx)
		if err != nil {
			return err
		}
		if err := r.homes.Create(ctx, home); err != nil {
			return err
		}
		for _, item := range items {
			task := domain.NewHomeTaskFromTemplate(uuid.New().String(), home.ID, item, now)
			if err := r.tasks.Create(ctx, task); err != nil {
				return fmt.Errorf("snapshotting %s: %w", item.Name, err)
			}
		}
		fields["task_count"] = len(items)

		report, _, err = computeHomeForecast(ctx, r, s.calendar, home.ID, now)
		if err != nil {
			return err
		}
		home.ForecastCompletionDate = report.CompletionDate
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return home, report, nil
}

func (s *homeService) GetHome(ctx context.Context, id string) (*domain.Home, error) {
	var home *domain.Home
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		home, err = newTxRepos(tx).homes.GetByID(ctx, id)
		return err
	})
	return home, err
}

func (s *homeService) ListHomes(ctx context.Context) ([]*domain.Home, error) {
	var homes []*domain.Home
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		homes, err = newTxRepos(tx).homes.List(ctx)
		return err
	})
	return homes, err
}

func (s *homeService) ListTasks(ctx context.Context, homeID string) (tasks []*domain.HomeTask, err error) {
	unlock := s.locks.Lock(homeID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := r.homes.GetByID(ctx, homeID); err != nil {
			return err
		}
		tasks, err = r.tasks.ListByHome(ctx, homeID)
		if err != nil {
			return err
		}
		_, err = repairTasks(ctx, r, tasks, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *homeService) RecomputeForecast(ctx context.Context, homeID string) (report *contract.ForecastReport, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"home_id": homeID}
	defer func() { observe(ctx, s.observer, "home-recompute-forecast", startedAt, fields, err) }()

	unlock := s.locks.Lock(homeID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var slip *notify.ForecastSlip
		report, slip, err = computeHomeForecast(ctx, newTxRepos(tx), s.calendar, homeID, s.now())
		if err != nil {
			return err
		}
		if slip != nil {
			fields["slip_days"] = slip.SlipDays
			emitAfterCommit(ctx, s.events, *slip)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
