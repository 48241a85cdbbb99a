// Package notify delivers schedule events to external collaborators.
// Delivery is fire-and-forget relative to the unit of work that produced
// the event: failures are logged, never returned to the caller.
package notify

import "time"

// Event is a typed schedule event.
type Event interface {
	EventName() string
}

// ForecastSlip is raised when a recompute moves a home's completion
// forecast later than its previous value.
type ForecastSlip struct {
	HomeID           string
	HomeLabel        string
	PreviousForecast time.Time
	NewForecast      time.Time
	// SlipDays is the number of working days the forecast moved.
	SlipDays int
}

func (ForecastSlip) EventName() string { return "forecast_slip" }

// GateBlocked is raised when a transition is rejected by a gate.
type GateBlocked struct {
	HomeID         string
	TaskID         string
	TaskName       string
	Transition     string
	GateName       string
	GateTaskID     string
	OpenPunchCount int
}

func (GateBlocked) EventName() string { return "gate_blocked" }
