package scheduler

import (
	"sort"

	"github.com/alexanderramin/homeplan/internal/domain"
)

// GateState is a gate task in a home together with its open punch count.
type GateState struct {
	TaskID         string
	GateName       string
	SortOrder      int
	Scope          domain.GateScope
	BlockMode      domain.GateBlockMode
	OpenPunchCount int
}

// GateQuery asks whether a transition on a candidate task is blocked.
type GateQuery struct {
	CandidateTaskID    string
	CandidateSortOrder int
	Kind               domain.TransitionKind
	Gates              []GateState
}

// GateDecision is the answer to a GateQuery. When not blocked every other
// field is zero.
type GateDecision struct {
	IsBlocked        bool
	BlockingGateName string
	BlockingTaskID   string
	OpenPunchCount   int
}

// CheckGateBlocking decides whether any relevant gate blocks the query.
//
// A gate is relevant when its scope covers the candidate (downstream-only
// gates need a lower sort order than the candidate) and its block mode
// applies to the transition kind. A relevant gate blocks while it has open
// punch items. When several block, the one with the highest sort order
// wins; ties go to the lexically smaller gate name, then task id.
// A gate never blocks transitions on its own task.
func CheckGateBlocking(q GateQuery) GateDecision {
	var blocking []GateState
	for _, g := range q.Gates {
		if g.TaskID == q.CandidateTaskID {
			continue
		}
		if g.Scope != domain.GateScopeAll && g.SortOrder >= q.CandidateSortOrder {
			continue
		}
		if !g.BlockMode.Blocks(q.Kind) {
			continue
		}
		if g.OpenPunchCount > 0 {
			blocking = append(blocking, g)
		}
	}
	if len(blocking) == 0 {
		return GateDecision{}
	}

	sort.Slice(blocking, func(i, j int) bool {
		a, b := blocking[i], blocking[j]
		if a.SortOrder != b.SortOrder {
			return a.SortOrder > b.SortOrder
		}
		if a.GateName != b.GateName {
			return a.GateName < b.GateName
		}
		return a.TaskID < b.TaskID
	})

	winner := blocking[0]
	return GateDecision{
		IsBlocked:        true,
		BlockingGateName: winner.GateName,
		BlockingTaskID:   winner.TaskID,
		OpenPunchCount:   winner.OpenPunchCount,
	}
}
