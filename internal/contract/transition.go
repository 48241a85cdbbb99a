package contract

import (
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/domain"
)

type TransitionRequest struct {
	TaskID string
	domain.TransitionRequest
	// Now overrides the clock for completedAt and updatedAt.
	Now *time.Time
}

func NewTransitionRequest(taskID string, kind domain.TransitionKind) TransitionRequest {
	return TransitionRequest{
		TaskID:            taskID,
		TransitionRequest: domain.TransitionRequest{Kind: kind},
	}
}

// WithDate returns a copy of r carrying the proposed scheduled date.
func (r TransitionRequest) WithDate(d time.Time) TransitionRequest {
	r.ScheduledDate = &d
	return r
}

type RejectionCode string

const (
	RejectGateBlocked   RejectionCode = "GATE_BLOCKED"
	RejectCycleDetected RejectionCode = "CYCLE_DETECTED"
)

// Rejection is a domain rule refusing a request. It is a normal outcome,
// not a fault.
type Rejection struct {
	Code    RejectionCode
	Message string

	BlockingGateName string
	BlockingTaskID   string
	OpenPunchCount   int

	CycleNames []string
}

func (r *Rejection) Error() string {
	return string(r.Code) + ": " + r.Message
}

// NewGateRejection builds a GATE_BLOCKED rejection.
func NewGateRejection(gateName, gateTaskID string, openPunchCount int) *Rejection {
	return &Rejection{
		Code:             RejectGateBlocked,
		Message:          fmt.Sprintf("blocked by gate %q with %d open punch items", gateName, openPunchCount),
		BlockingGateName: gateName,
		BlockingTaskID:   gateTaskID,
		OpenPunchCount:   openPunchCount,
	}
}

// NewCycleRejection builds a CYCLE_DETECTED rejection from a cycle error.
func NewCycleRejection(err *domain.CycleError) *Rejection {
	return &Rejection{
		Code:       RejectCycleDetected,
		Message:    err.Error(),
		CycleNames: append([]string(nil), err.Names...),
	}
}

type TransitionResult struct {
	Task           *domain.HomeTask
	PreviousStatus domain.TaskStatus
	// Forecast is set when the transition triggered a recompute.
	Forecast *ForecastReport
	// Rejection is set when a gate refused the transition; Task is then
	// the unchanged task.
	Rejection *Rejection
}

// Accepted reports whether the transition was applied.
func (r *TransitionResult) Accepted() bool {
	return r.Rejection == nil
}
