package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNextStatus_AllowedTransitions(t *testing.T) {
	date := datePtr(2025, 7, 1)
	cases := []struct {
		from TaskStatus
		req  TransitionRequest
		want TaskStatus
	}{
		{TaskUnscheduled, TransitionRequest{Kind: KindSchedule, ScheduledDate: date}, TaskScheduled},
		{TaskScheduled, TransitionRequest{Kind: KindRequestConfirm}, TaskPendingConfirm},
		{TaskPendingConfirm, TransitionRequest{Kind: KindConfirm}, TaskConfirmed},
		{TaskConfirmed, TransitionRequest{Kind: KindReschedule, ScheduledDate: date}, TaskScheduled},
		{TaskScheduled, TransitionRequest{Kind: KindReschedule, ScheduledDate: date}, TaskScheduled},
		{TaskPendingConfirm, TransitionRequest{Kind: KindReschedule, ScheduledDate: date}, TaskScheduled},
		{TaskScheduled, TransitionRequest{Kind: KindComplete}, TaskCompleted},
		{TaskPendingConfirm, TransitionRequest{Kind: KindComplete}, TaskCompleted},
		{TaskConfirmed, TransitionRequest{Kind: KindComplete}, TaskCompleted},
		{TaskUnscheduled, TransitionRequest{Kind: KindCancel}, TaskUnscheduled},
		{TaskConfirmed, TransitionRequest{Kind: KindCancel}, TaskUnscheduled},
		{TaskScheduled, TransitionRequest{Kind: KindCancel, Permanent: true}, TaskCanceled},
		{TaskPendingConfirm, TransitionRequest{Kind: KindDecline}, TaskDeclined},
	}
	for _, tc := range cases {
		got, err := NextStatus(tc.from, tc.req)
		require.NoError(t, err, "%s from %s", tc.req.Kind, tc.from)
		assert.Equal(t, tc.want, got, "%s from %s", tc.req.Kind, tc.from)
	}
}

func TestNextStatus_RejectedTransitions(t *testing.T) {
	date := datePtr(2025, 7, 1)
	cases := []struct {
		from TaskStatus
		req  TransitionRequest
	}{
		{TaskScheduled, TransitionRequest{Kind: KindSchedule, ScheduledDate: date}},
		{TaskUnscheduled, TransitionRequest{Kind: KindReschedule, ScheduledDate: date}},
		{TaskUnscheduled, TransitionRequest{Kind: KindComplete}},
		{TaskUnscheduled, TransitionRequest{Kind: KindConfirm}},
		{TaskScheduled, TransitionRequest{Kind: KindDecline}},
		{TaskCompleted, TransitionRequest{Kind: KindCancel}},
		{TaskCanceled, TransitionRequest{Kind: KindSchedule, ScheduledDate: date}},
		{TaskDeclined, TransitionRequest{Kind: KindCancel}},
		{TaskUnscheduled, TransitionRequest{Kind: "teleport"}},
	}
	for _, tc := range cases {
		_, err := NextStatus(tc.from, tc.req)
		require.Error(t, err, "%s from %s", tc.req.Kind, tc.from)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
	}
}

func TestNextStatus_ScheduleRequiresDate(t *testing.T) {
	_, err := NextStatus(TaskUnscheduled, TransitionRequest{Kind: KindSchedule})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "requires a scheduled date")

	_, err = NextStatus(TaskScheduled, TransitionRequest{Kind: KindReschedule})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplyTransition_ScheduleSetsDateAndContractor(t *testing.T) {
	task := &HomeTask{Status: TaskUnscheduled}
	contractor := "crew-7"
	require.NoError(t, task.ApplyTransition(TransitionRequest{
		Kind:          KindSchedule,
		ScheduledDate: datePtr(2025, 7, 1),
		ContractorID:  &contractor,
	}, testNow))

	assert.Equal(t, TaskScheduled, task.Status)
	require.NotNil(t, task.ScheduledDate)
	assert.Equal(t, *datePtr(2025, 7, 1), *task.ScheduledDate)
	require.NotNil(t, task.ContractorID)
	assert.Equal(t, "crew-7", *task.ContractorID)
	assert.Equal(t, testNow, task.UpdatedAt)
}

func TestApplyTransition_RescheduleKeepsContractor(t *testing.T) {
	contractor := "crew-7"
	task := &HomeTask{Status: TaskConfirmed, ScheduledDate: datePtr(2025, 7, 1), ContractorID: &contractor}
	require.NoError(t, task.ApplyTransition(TransitionRequest{
		Kind:          KindReschedule,
		ScheduledDate: datePtr(2025, 7, 8),
	}, testNow))

	assert.Equal(t, TaskScheduled, task.Status)
	assert.Equal(t, *datePtr(2025, 7, 8), *task.ScheduledDate)
	require.NotNil(t, task.ContractorID)
	assert.Equal(t, "crew-7", *task.ContractorID)
}

func TestApplyTransition_CompleteSetsCompletedAt(t *testing.T) {
	task := &HomeTask{Status: TaskConfirmed, ScheduledDate: datePtr(2025, 7, 1)}
	require.NoError(t, task.ApplyTransition(TransitionRequest{Kind: KindComplete}, testNow))
	assert.Equal(t, TaskCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
}

func TestApplyTransition_CancelClearsScheduleAndContractor(t *testing.T) {
	contractor := "crew-7"
	task := &HomeTask{Status: TaskPendingConfirm, ScheduledDate: datePtr(2025, 7, 1), ContractorID: &contractor}
	require.NoError(t, task.ApplyTransition(TransitionRequest{Kind: KindCancel}, testNow))
	assert.Equal(t, TaskUnscheduled, task.Status)
	assert.Nil(t, task.ScheduledDate)
	assert.Nil(t, task.ContractorID)

	// A cancelled task can be scheduled again.
	require.NoError(t, task.ApplyTransition(TransitionRequest{Kind: KindSchedule, ScheduledDate: datePtr(2025, 8, 1)}, testNow))
	assert.Equal(t, TaskScheduled, task.Status)
}

func TestApplyTransition_ErrorLeavesTaskUnchanged(t *testing.T) {
	date := datePtr(2025, 7, 1)
	task := &HomeTask{Status: TaskCompleted, ScheduledDate: date, UpdatedAt: testNow.Add(-time.Hour)}
	err := task.ApplyTransition(TransitionRequest{Kind: KindCancel}, testNow)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, TaskCompleted, task.Status)
	assert.Equal(t, date, task.ScheduledDate)
	assert.Equal(t, testNow.Add(-time.Hour), task.UpdatedAt)
}

func TestTransitionKind_Flags(t *testing.T) {
	assert.True(t, KindSchedule.GateChecked())
	assert.True(t, KindReschedule.GateChecked())
	assert.True(t, KindConfirm.GateChecked())
	assert.True(t, KindComplete.GateChecked())
	assert.False(t, KindCancel.GateChecked())
	assert.False(t, KindDecline.GateChecked())
	assert.False(t, KindRequestConfirm.GateChecked())

	assert.True(t, KindSchedule.TriggersForecast())
	assert.True(t, KindReschedule.TriggersForecast())
	assert.True(t, KindComplete.TriggersForecast())
	assert.True(t, KindCancel.TriggersForecast())
	assert.False(t, KindConfirm.TriggersForecast())
	assert.False(t, KindDecline.TriggersForecast())
}

func TestGateBlockMode_Blocks(t *testing.T) {
	cases := []struct {
		mode GateBlockMode
		kind TransitionKind
		want bool
	}{
		{GateBlockScheduleOnly, KindSchedule, true},
		{GateBlockScheduleOnly, KindReschedule, true},
		{GateBlockScheduleOnly, KindConfirm, false},
		{GateBlockScheduleOnly, KindComplete, false},
		{GateBlockScheduleAndConfirm, KindConfirm, true},
		{GateBlockScheduleAndConfirm, KindComplete, false},
		{GateBlockAll, KindConfirm, true},
		{GateBlockAll, KindComplete, true},
		{GateBlockAll, KindCancel, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.mode.Blocks(tc.kind), "mode=%s kind=%s", tc.mode, tc.kind)
	}
}

func TestRepairInconsistentState(t *testing.T) {
	task := &HomeTask{Status: TaskScheduled}
	assert.True(t, task.RepairInconsistentState(testNow))
	assert.Equal(t, TaskUnscheduled, task.Status)
	assert.Equal(t, testNow, task.UpdatedAt)

	ok := &HomeTask{Status: TaskScheduled, ScheduledDate: datePtr(2025, 7, 1)}
	assert.False(t, ok.RepairInconsistentState(testNow))
	assert.Equal(t, TaskScheduled, ok.Status)

	unscheduled := &HomeTask{Status: TaskUnscheduled}
	assert.False(t, unscheduled.RepairInconsistentState(testNow))
}
