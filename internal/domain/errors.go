package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates a referenced home, task, template item or punch
	// item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDependency indicates a self-dependency or a reference to a
	// template item that does not exist.
	ErrInvalidDependency = errors.New("invalid dependency")

	// ErrUnknownNode is the InvalidDependency case where a proposed
	// dependency names an id that is not a known node.
	ErrUnknownNode = fmt.Errorf("%w: unknown node", ErrInvalidDependency)

	// ErrCycleDetected indicates a dependency set contains a cycle.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrGateBlocked indicates an upstream gate with open punch items
	// prevented a transition.
	ErrGateBlocked = errors.New("gate blocked")

	// ErrInvalidTransition indicates the requested transition is not allowed
	// from the task's current status, or lacks a required input.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInconsistentState marks an invariant-repair case. It is never
	// returned to callers; repairs are applied in place.
	ErrInconsistentState = errors.New("inconsistent state")

	// ErrItemInUse indicates a template item cannot be deleted because home
	// tasks still reference it.
	ErrItemInUse = errors.New("template item in use")

	// ErrValidation indicates an entity failed field validation.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError wraps ErrNotFound with the entity kind and id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound returns a *NotFoundError for the given entity kind and id.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// CycleError reports every node left unprocessed by a topological sort.
// IDs and Names are parallel slices in canonical node order.
type CycleError struct {
	IDs   []string
	Names []string
}

func (e *CycleError) Error() string {
	if len(e.Names) == 0 {
		return ErrCycleDetected.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(e.Names, ", "))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// GateBlockedError describes a gate rejection when it has to travel as an
// error (for example out of a CLI command).
type GateBlockedError struct {
	GateName       string
	GateTaskID     string
	OpenPunchCount int
}

func (e *GateBlockedError) Error() string {
	return fmt.Sprintf("%s by %q (%d open punch items)", ErrGateBlocked, e.GateName, e.OpenPunchCount)
}

func (e *GateBlockedError) Unwrap() error { return ErrGateBlocked }

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func invalidTransitionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}
