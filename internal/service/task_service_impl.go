package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/notify"
	"github.com/alexanderramin/homeplan/internal/repository"
	"github.com/alexanderramin/homeplan/internal/scheduler"
)

type taskService struct {
	uow      db.UnitOfWork
	calendar scheduler.Calendar
	locks    *HomeLocks
	events   *notify.Dispatcher
	observer UseCaseObserver
	now      func() time.Time
}

func NewTaskService(
	uow db.UnitOfWork,
	calendar scheduler.Calendar,
	locks *HomeLocks,
	events *notify.Dispatcher,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		uow:      uow,
		calendar: calendar,
		locks:    locksOrNew(locks),
		events:   events,
		observer: useCaseObserverOrNoop(observers),
		now:      utcNow,
	}
}

func (s *taskService) GetTask(ctx context.Context, id string) (*domain.HomeTask, error) {
	var task *domain.HomeTask
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		task, err = newTxRepos(tx).tasks.GetByID(ctx, id)
		return err
	})
	return task, err
}

func (s *taskService) Schedule(ctx context.Context, taskID string, date time.Time, contractorID *string) (*contract.TransitionResult, error) {
	req := contract.NewTransitionRequest(taskID, domain.KindSchedule).WithDate(date)
	req.ContractorID = contractorID
	return s.Transition(ctx, req)
}

func (s *taskService) Reschedule(ctx context.Context, taskID string, date time.Time, contractorID *string) (*contract.TransitionResult, error) {
	req := contract.NewTransitionRequest(taskID, domain.KindReschedule).WithDate(date)
	req.ContractorID = contractorID
	return s.Transition(ctx, req)
}

func (s *taskService) RequestConfirmation(ctx context.Context, taskID string) (*contract.TransitionResult, error) {
	return s.Transition(ctx, contract.NewTransitionRequest(taskID, domain.KindRequestConfirm))
}

func (s *taskService) Confirm(ctx context.Context, taskID string) (*contract.TransitionResult, error) {
	return s.Transition(ctx, contract.NewTransitionRequest(taskID, domain.KindConfirm))
}

func (s *taskService) Complete(ctx context.Context, taskID string) (*contract.TransitionResult, error) {
	return s.Transition(ctx, contract.NewTransitionRequest(taskID, domain.KindComplete))
}

func (s *taskService) Cancel(ctx context.Context, taskID string, permanent bool) (*contract.TransitionResult, error) {
	req := contract.NewTransitionRequest(taskID, domain.KindCancel)
	req.Permanent = permanent
	return s.Transition(ctx, req)
}

func (s *taskService) Decline(ctx context.Context, taskID string) (*contract.TransitionResult, error) {
	return s.Transition(ctx, contract.NewTransitionRequest(taskID, domain.KindDecline))
}

// Transition runs one state change as a single unit of work on the task's
// home: repair, transition guard, gate check, state write and, when the
// kind requires it, a full forecast recompute. Work on the same home is
// serialized.
func (s *taskService) Transition(ctx context.Context, req contract.TransitionRequest) (res *contract.TransitionResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"task_id":    req.TaskID,
		"transition": string(req.Kind),
	}
	defer func() { observe(ctx, s.observer, "task-transition", startedAt, fields, err) }()

	if !domain.ValidTransitionKinds[string(req.Kind)] {
		return nil, fmt.Errorf("%w: unknown transition kind %q", domain.ErrInvalidTransition, req.Kind)
	}
	now := s.now()
	if req.Now != nil {
		now = req.Now.UTC()
	}
	if req.ScheduledDate != nil {
		d := dateOnly(*req.ScheduledDate)
		req.ScheduledDate = &d
	}

	homeID, err := s.homeOf(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	fields["home_id"] = homeID

	unlock := s.locks.Lock(homeID)
	defer unlock()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		task, err := r.tasks.GetByID(ctx, req.TaskID)
		if err != nil {
			return err
		}
		if _, err := repairTasks(ctx, r, []*domain.HomeTask{task}, now); err != nil {
			return err
		}
		res = &contract.TransitionResult{Task: task, PreviousStatus: task.Status}

		if _, err := domain.NextStatus(task.Status, req.TransitionRequest); err != nil {
			return err
		}

		if req.Kind.GateChecked() {
			rows, err := r.tasks.ListGates(ctx, homeID)
			if err != nil {
				return err
			}
			decision := decideGates(rows, task.ID, task.SortOrderSnapshot, req.Kind)
			if decision.IsBlocked {
				fields["blocked_by"] = decision.BlockingGateName
				res.Rejection = contract.NewGateRejection(decision.BlockingGateName, decision.BlockingTaskID, decision.OpenPunchCount)
				emitAfterCommit(ctx, s.events, notify.GateBlocked{
					HomeID:         task.HomeID,
					TaskID:         task.ID,
					TaskName:       task.NameSnapshot,
					Transition:     string(req.Kind),
					GateName:       decision.BlockingGateName,
					GateTaskID:     decision.BlockingTaskID,
					OpenPunchCount: decision.OpenPunchCount,
				})
				return nil
			}
		}

		if err := task.ApplyTransition(req.TransitionRequest, now); err != nil {
			return err
		}
		if err := r.tasks.Update(ctx, task); err != nil {
			return err
		}
		fields["status"] = string(task.Status)

		if !req.Kind.TriggersForecast() {
			return nil
		}
		report, slip, err := computeHomeForecast(ctx, r, s.calendar, homeID, now)
		if err != nil {
			return err
		}
		res.Forecast = report
		if slip != nil {
			fields["slip_days"] = slip.SlipDays
			emitAfterCommit(ctx, s.events, *slip)
		}
		// Pick up the forecast date written by the recompute.
		for _, line := range report.Tasks {
			if line.TaskID == task.ID {
				finish := line.EarliestFinish
				task.ForecastDate = &finish
			}
		}
		if !task.InForecast() {
			task.ForecastDate = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *taskService) homeOf(ctx context.Context, taskID string) (string, error) {
	var homeID string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		task, err := newTxRepos(tx).tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		homeID = task.HomeID
		return nil
	})
	return homeID, err
}

func decideGates(rows []repository.GateRow, taskID string, sortOrder int, kind domain.TransitionKind) scheduler.GateDecision {
	return scheduler.CheckGateBlocking(scheduler.GateQuery{
		CandidateTaskID:    taskID,
		CandidateSortOrder: sortOrder,
		Kind:               kind,
		Gates:              toGateStates(rows),
	})
}

func toGateStates(rows []repository.GateRow) []scheduler.GateState {
	states := make([]scheduler.GateState, len(rows))
	for i, g := range rows {
		states[i] = scheduler.GateState{
			TaskID:         g.TaskID,
			GateName:       g.GateName,
			SortOrder:      g.SortOrder,
			Scope:          g.Scope,
			BlockMode:      g.BlockMode,
			OpenPunchCount: g.OpenPunchCount,
		}
	}
	return states
}
