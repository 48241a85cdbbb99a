package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDisplayGateName_Fallbacks(t *testing.T) {
	item := &TemplateItem{Name: "Frame inspection"}
	assert.Equal(t, "Frame inspection", item.DisplayGateName())

	item.Category = strPtr("Framing")
	assert.Equal(t, "Framing", item.DisplayGateName())

	item.GateName = strPtr("Frame QA")
	assert.Equal(t, "Frame QA", item.DisplayGateName())

	item.GateName = strPtr("")
	assert.Equal(t, "Framing", item.DisplayGateName(), "empty gate name falls back to category")
}

func TestTemplateItemValidate(t *testing.T) {
	item := &TemplateItem{Name: "Pour slab", DurationDays: 2}
	item.ApplyDefaults()
	require.NoError(t, item.Validate())
	assert.Equal(t, GateScopeDownstreamOnly, item.GateScope)
	assert.Equal(t, GateBlockScheduleOnly, item.GateBlockMode)

	zero := &TemplateItem{Name: "Nothing", DurationDays: 0}
	zero.ApplyDefaults()
	err := zero.Validate()
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "positive")

	badScope := &TemplateItem{Name: "X", DurationDays: 1, GateScope: "sideways", GateBlockMode: GateBlockAll}
	require.ErrorIs(t, badScope.Validate(), ErrValidation)

	unnamed := &TemplateItem{DurationDays: 1}
	unnamed.ApplyDefaults()
	require.ErrorIs(t, unnamed.Validate(), ErrValidation)
}

func TestHomeIsBehindTarget(t *testing.T) {
	h := &Home{}
	assert.False(t, h.IsBehindTarget())

	h.TargetCompletionDate = datePtr(2025, 9, 1)
	h.ForecastCompletionDate = datePtr(2025, 8, 29)
	assert.False(t, h.IsBehindTarget())

	h.ForecastCompletionDate = datePtr(2025, 9, 2)
	assert.True(t, h.IsBehindTarget())
}

func TestCycleError_ListsNames(t *testing.T) {
	err := &CycleError{IDs: []string{"a", "b"}, Names: []string{"Framing", "Roofing"}}
	assert.ErrorIs(t, err, ErrCycleDetected)
	assert.Equal(t, "cycle detected: Framing, Roofing", err.Error())
}

func TestUnknownNodeIsInvalidDependency(t *testing.T) {
	assert.ErrorIs(t, ErrUnknownNode, ErrInvalidDependency)
	assert.ErrorIs(t, NewNotFound("home", "h1"), ErrNotFound)
	assert.Equal(t, `home "h1" not found`, NewNotFound("home", "h1").Error())
}

func TestNewHomeTaskFromTemplate_SnapshotsGateMetadata(t *testing.T) {
	item := &TemplateItem{
		ID: "framing-inspection", Name: "Framing inspection", DurationDays: 2, SortOrder: 40,
		Category: strPtr("framing"), IsCriticalGate: true,
		GateScope: GateScopeAll, GateBlockMode: GateBlockScheduleAndConfirm,
	}
	now := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

	task := NewHomeTaskFromTemplate("t1", "h1", item, now)

	assert.Equal(t, TaskUnscheduled, task.Status)
	assert.Equal(t, 2, task.DurationDaysSnapshot)
	assert.Equal(t, 40, task.SortOrderSnapshot)
	assert.True(t, task.IsCriticalGate)
	assert.Equal(t, GateScopeAll, task.GateScope)
	assert.Equal(t, GateBlockScheduleAndConfirm, task.GateBlockMode)
	assert.Equal(t, "framing", task.GateName)

	item.DurationDays = 9
	item.Name = "Renamed"
	assert.Equal(t, 2, task.DurationDaysSnapshot, "snapshot must not follow template edits")
	assert.Equal(t, "Framing inspection", task.NameSnapshot)
}
