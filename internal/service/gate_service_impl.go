package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
)

type gateService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewGateService(uow db.UnitOfWork, observers ...UseCaseObserver) GateService {
	return &gateService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Check evaluates the home's gates against a proposed transition without
// applying it. Nothing is written.
func (s *gateService) Check(ctx context.Context, req contract.GateCheckRequest) (resp *contract.GateCheckResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": req.TaskID, "transition": string(req.Kind)}
	defer func() { observe(ctx, s.observer, "gate-check", startedAt, fields, err) }()

	if !domain.ValidTransitionKinds[string(req.Kind)] {
		return nil, fmt.Errorf("%w: unknown transition kind %q", domain.ErrInvalidTransition, req.Kind)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		task, err := r.tasks.GetByID(ctx, req.TaskID)
		if err != nil {
			return err
		}
		sortOrder := task.SortOrderSnapshot
		if req.SortOrder != nil {
			sortOrder = *req.SortOrder
		}
		rows, err := r.tasks.ListGates(ctx, task.HomeID)
		if err != nil {
			return err
		}
		decision := decideGates(rows, task.ID, sortOrder, req.Kind)
		resp = &contract.GateCheckResponse{
			HomeID:           task.HomeID,
			TaskID:           task.ID,
			Kind:             req.Kind,
			SortOrder:        sortOrder,
			IsBlocked:        decision.IsBlocked,
			BlockingGateName: decision.BlockingGateName,
			BlockingTaskID:   decision.BlockingTaskID,
			OpenPunchCount:   decision.OpenPunchCount,
			GatesEvaluated:   len(rows),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["blocked"] = resp.IsBlocked
	return resp, nil
}
