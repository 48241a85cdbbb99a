package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainInput() ForecastInput {
	return ForecastInput{
		StartDate: monday,
		Tasks: []ForecastTask{
			{ID: "A", Name: "Footings", DurationDays: 2, SortOrder: 1},
			{ID: "B", Name: "Framing", DurationDays: 3, SortOrder: 2},
			{ID: "C", Name: "Roofing", DurationDays: 1, SortOrder: 3},
		},
		Edges:    []Edge{{From: "A", To: "B"}, {From: "B", To: "C"}},
		Calendar: DefaultCalendar(),
	}
}

func TestComputeForecast_ChainAcrossWeekend(t *testing.T) {
	res, err := ComputeForecast(chainInput())
	require.NoError(t, err)

	a, b, c := res.Tasks["A"], res.Tasks["B"], res.Tasks["C"]
	assert.Equal(t, monday, a.EarliestStart)
	assert.Equal(t, day(2025, 6, 18), a.EarliestFinish, "A finishes Wednesday")
	assert.Equal(t, day(2025, 6, 18), b.EarliestStart, "B starts Wednesday")
	assert.Equal(t, day(2025, 6, 23), b.EarliestFinish, "B finishes the following Monday")
	assert.Equal(t, day(2025, 6, 23), c.EarliestStart)
	assert.Equal(t, day(2025, 6, 24), c.EarliestFinish, "C finishes Tuesday")

	require.NotNil(t, res.CompletionDate)
	assert.Equal(t, day(2025, 6, 24), *res.CompletionDate)
	assert.Equal(t, 6, res.TotalWorkingDays)
	assert.Equal(t, []string{"A", "B", "C"}, res.CriticalPath)
}

func TestComputeForecast_ParallelBranchHasSlack(t *testing.T) {
	in := ForecastInput{
		StartDate: monday,
		Tasks: []ForecastTask{
			{ID: "slab", Name: "Slab", DurationDays: 1},
			{ID: "frame", Name: "Frame", DurationDays: 5},
			{ID: "plumb", Name: "Rough plumbing", DurationDays: 2},
			{ID: "drywall", Name: "Drywall", DurationDays: 3},
		},
		Edges: []Edge{
			{From: "slab", To: "frame"},
			{From: "slab", To: "plumb"},
			{From: "frame", To: "drywall"},
			{From: "plumb", To: "drywall"},
		},
		Calendar: DefaultCalendar(),
	}
	res, err := ComputeForecast(in)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Tasks["plumb"].SlackDays)
	assert.False(t, res.Tasks["plumb"].Critical)
	assert.Equal(t, 0, res.Tasks["frame"].SlackDays)
	assert.Equal(t, []string{"slab", "frame", "drywall"}, res.CriticalPath)

	// drywall waits for the later of its two dependencies.
	assert.Equal(t, res.Tasks["frame"].EarliestFinish, res.Tasks["drywall"].EarliestStart)
	assert.Equal(t, 9, res.TotalWorkingDays)
}

func TestComputeForecast_Invariants(t *testing.T) {
	in := ForecastInput{
		StartDate: day(2025, 6, 14),
		Tasks: []ForecastTask{
			{ID: "1", DurationDays: 4}, {ID: "2", DurationDays: 0}, {ID: "3", DurationDays: 2},
			{ID: "4", DurationDays: 7}, {ID: "5", DurationDays: 1}, {ID: "6", DurationDays: 3},
		},
		Edges: []Edge{
			{From: "1", To: "3"}, {From: "2", To: "3"}, {From: "3", To: "5"},
			{From: "4", To: "5"}, {From: "2", To: "6"},
		},
		Calendar: DefaultCalendar(),
	}
	res, err := ComputeForecast(in)
	require.NoError(t, err)

	var latest time.Time
	for _, tf := range res.Tasks {
		if tf.EarliestFinish.After(latest) {
			latest = tf.EarliestFinish
		}
	}
	for _, e := range in.Edges {
		assert.False(t, res.Tasks[e.To].EarliestStart.Before(res.Tasks[e.From].EarliestFinish),
			"%s must not start before %s finishes", e.To, e.From)
	}
	// The Saturday start rolls forward to Monday.
	for _, id := range []string{"1", "2", "4"} {
		assert.Equal(t, monday, res.Tasks[id].EarliestStart, "root %s starts on the first working day", id)
	}
	assert.Equal(t, monday, res.Tasks["2"].EarliestFinish, "zero duration finishes on its start day")
	require.NotNil(t, res.CompletionDate)
	assert.Equal(t, latest, *res.CompletionDate)
}

func TestComputeForecast_NonWorkingStartDate(t *testing.T) {
	holidayMonday, err := NewCalendar([]time.Weekday{time.Saturday, time.Sunday}, []time.Time{monday})
	require.NoError(t, err)

	tests := []struct {
		name       string
		start      time.Time
		cal        Calendar
		wantStart  time.Time
		wantFinish time.Time
	}{
		{"saturday", day(2025, 6, 14), DefaultCalendar(), monday, day(2025, 6, 17)},
		{"sunday", day(2025, 6, 15), DefaultCalendar(), monday, day(2025, 6, 17)},
		{"friday", day(2025, 6, 13), DefaultCalendar(), day(2025, 6, 13), monday},
		{"holiday", monday, holidayMonday, day(2025, 6, 17), day(2025, 6, 18)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ComputeForecast(ForecastInput{
				StartDate: tt.start,
				Tasks:     []ForecastTask{{ID: "A", Name: "Survey", DurationDays: 1}},
				Calendar:  tt.cal,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, res.Tasks["A"].EarliestStart)
			assert.Equal(t, tt.wantFinish, res.Tasks["A"].EarliestFinish)
			require.NotNil(t, res.CompletionDate)
			assert.Equal(t, tt.wantFinish, *res.CompletionDate)
		})
	}
}

func TestComputeForecast_EmptyHome(t *testing.T) {
	res, err := ComputeForecast(ForecastInput{StartDate: monday, Calendar: DefaultCalendar()})
	require.NoError(t, err)
	assert.Nil(t, res.CompletionDate)
	assert.Empty(t, res.Tasks)
}

func TestComputeForecast_CycleNamesTasks(t *testing.T) {
	in := chainInput()
	in.Edges = append(in.Edges, Edge{From: "C", To: "A"})

	_, err := ComputeForecast(in)
	var cyc *domain.CycleError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, []string{"Footings", "Framing", "Roofing"}, cyc.Names)
}

func TestBuildForecastInput_RemapsAndDropsCanceled(t *testing.T) {
	home := &domain.Home{ID: "h1", StartDate: monday}
	tasks := []*domain.HomeTask{
		{ID: "t-c", TemplateItemID: "tpl-c", NameSnapshot: "C", DurationDaysSnapshot: 1, SortOrderSnapshot: 30, Status: domain.TaskUnscheduled},
		{ID: "t-a", TemplateItemID: "tpl-a", NameSnapshot: "A", DurationDaysSnapshot: 2, SortOrderSnapshot: 10, Status: domain.TaskCompleted},
		{ID: "t-b", TemplateItemID: "tpl-b", NameSnapshot: "B", DurationDaysSnapshot: 3, SortOrderSnapshot: 20, Status: domain.TaskCanceled},
	}
	deps := []domain.TemplateDependency{
		{DependsOnItemID: "tpl-a", TemplateItemID: "tpl-b"},
		{DependsOnItemID: "tpl-b", TemplateItemID: "tpl-c"},
		{DependsOnItemID: "tpl-a", TemplateItemID: "tpl-c"},
		{DependsOnItemID: "tpl-x", TemplateItemID: "tpl-c"},
	}

	in := BuildForecastInput(home, tasks, deps, DefaultCalendar())

	require.Len(t, in.Tasks, 2)
	assert.Equal(t, "t-a", in.Tasks[0].ID, "ordered by sort order snapshot")
	assert.Equal(t, "t-c", in.Tasks[1].ID)
	assert.Equal(t, []Edge{{From: "t-a", To: "t-c"}}, in.Edges, "edges touching canceled or absent tasks are dropped")
	assert.Equal(t, monday, in.StartDate)
}
