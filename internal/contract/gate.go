package contract

import "github.com/alexanderramin/homeplan/internal/domain"

type GateCheckRequest struct {
	TaskID string
	Kind   domain.TransitionKind
	// SortOrder overrides the candidate task's own sort order snapshot.
	SortOrder *int
}

func NewGateCheckRequest(taskID string, kind domain.TransitionKind) GateCheckRequest {
	return GateCheckRequest{TaskID: taskID, Kind: kind}
}

type GateCheckResponse struct {
	HomeID           string
	TaskID           string
	Kind             domain.TransitionKind
	SortOrder        int
	IsBlocked        bool
	BlockingGateName string
	BlockingTaskID   string
	OpenPunchCount   int
	GatesEvaluated   int
}
