package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunchItemLifecycle(t *testing.T) {
	p := &PunchItem{ID: "p1", RelatedHomeTaskID: "t1", Title: "Nail pop", Status: PunchOpen, Severity: SeverityLow}
	require.NoError(t, p.Validate())
	assert.True(t, p.Status.IsOpen())

	require.NoError(t, p.MarkReadyForReview(testNow))
	assert.Equal(t, PunchReadyForReview, p.Status)
	assert.True(t, p.Status.IsOpen(), "ready for review still counts as open")

	p.Close(testNow)
	assert.Equal(t, PunchClosed, p.Status)
	assert.False(t, p.Status.IsOpen())
	require.NotNil(t, p.ClosedAt)

	require.Error(t, p.MarkReadyForReview(testNow))

	require.NoError(t, p.Reopen(testNow))
	assert.Equal(t, PunchOpen, p.Status)
	assert.Nil(t, p.ClosedAt)
	require.Error(t, p.Reopen(testNow))
}

func TestPunchItemValidate(t *testing.T) {
	p := &PunchItem{Title: "Scratch", Severity: SeverityHigh}
	require.ErrorIs(t, p.Validate(), ErrValidation)

	p.RelatedHomeTaskID = "t1"
	p.Severity = "apocalyptic"
	require.ErrorIs(t, p.Validate(), ErrValidation)
}
