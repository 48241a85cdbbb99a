package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/notify"
	"github.com/alexanderramin/homeplan/internal/repository"
)

// txRepos bundles repositories bound to one transaction.
type txRepos struct {
	items repository.TemplateItemRepo
	deps  repository.DependencyRepo
	homes repository.HomeRepo
	tasks repository.HomeTaskRepo
	punch repository.PunchItemRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		items: repository.NewSQLiteTemplateItemRepo(tx),
		deps:  repository.NewSQLiteDependencyRepo(tx),
		homes: repository.NewSQLiteHomeRepo(tx),
		tasks: repository.NewSQLiteHomeTaskRepo(tx),
		punch: repository.NewSQLitePunchItemRepo(tx),
	}
}

// HomeLocks serializes work on one home. Different homes never contend.
type HomeLocks struct {
	mu    sync.Mutex
	locks map[string]*homeLock
}

type homeLock struct {
	mu   sync.Mutex
	refs int
}

func NewHomeLocks() *HomeLocks {
	return &HomeLocks{locks: make(map[string]*homeLock)}
}

// Lock blocks until homeID is free and returns the matching unlock.
func (l *HomeLocks) Lock(homeID string) (unlock func()) {
	l.mu.Lock()
	hl, ok := l.locks[homeID]
	if !ok {
		hl = &homeLock{}
		l.locks[homeID] = hl
	}
	hl.refs++
	l.mu.Unlock()

	hl.mu.Lock()
	return func() {
		hl.mu.Unlock()
		l.mu.Lock()
		hl.refs--
		if hl.refs == 0 {
			delete(l.locks, homeID)
		}
		l.mu.Unlock()
	}
}

// size reports how many homes currently hold or wait on a lock.
func (l *HomeLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func locksOrNew(l *HomeLocks) *HomeLocks {
	if l == nil {
		return NewHomeLocks()
	}
	return l
}

// emitAfterCommit hands e to the dispatcher once the current unit of work
// commits. A nil dispatcher drops the event.
func emitAfterCommit(ctx context.Context, d *notify.Dispatcher, e notify.Event) {
	if d == nil {
		return
	}
	db.AfterCommit(ctx, func() { d.Dispatch(ctx, e) })
}

// dateOnly drops the clock part of t, keeping its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// repairTasks downgrades tasks in an inconsistent state and persists the fix.
func repairTasks(ctx context.Context, r txRepos, tasks []*domain.HomeTask, now time.Time) (int, error) {
	repaired := 0
	for _, t := range tasks {
		if !t.RepairInconsistentState(now) {
			continue
		}
		if err := r.tasks.Update(ctx, t); err != nil {
			return repaired, fmt.Errorf("repairing task %s: %w", t.ID, err)
		}
		repaired++
	}
	return repaired, nil
}
