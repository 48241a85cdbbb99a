package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/homeplan/internal/contract"
	"github.com/alexanderramin/homeplan/internal/domain"
	"github.com/alexanderramin/homeplan/internal/notify"
	"github.com/alexanderramin/homeplan/internal/scheduler"
)

// computeHomeForecast recomputes and persists the forecast of one home
// inside the caller's transaction. It writes the forecast date of every
// task in the graph, clears stale dates on canceled tasks and writes the
// home completion date when the graph is not empty. A cycle fails before
// anything is written.
//
// The returned slip is non-nil when a previous forecast existed and the
// new one is later.
func computeHomeForecast(ctx context.Context, r txRepos, cal scheduler.Calendar, homeID string, now time.Time) (*contract.ForecastReport, *notify.ForecastSlip, error) {
	home, err := r.homes.GetByID(ctx, homeID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := r.tasks.ListByHome(ctx, homeID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := repairTasks(ctx, r, tasks, now); err != nil {
		return nil, nil, err
	}
	deps, err := r.deps.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	result, err := scheduler.ComputeForecast(scheduler.BuildForecastInput(home, tasks, deps, cal))
	if err != nil {
		return nil, nil, fmt.Errorf("forecasting home %s: %w", home.Label, err)
	}

	for _, t := range tasks {
		tf, ok := result.Tasks[t.ID]
		switch {
		case ok:
			finish := tf.EarliestFinish
			t.ForecastDate = &finish
		case t.ForecastDate != nil:
			t.ForecastDate = nil
		default:
			continue
		}
		if err := r.tasks.UpdateForecast(ctx, t.ID, t.ForecastDate); err != nil {
			return nil, nil, err
		}
	}

	previous := home.ForecastCompletionDate
	if result.CompletionDate != nil {
		if err := r.homes.UpdateForecast(ctx, home.ID, result.CompletionDate); err != nil {
			return nil, nil, err
		}
		home.ForecastCompletionDate = result.CompletionDate
	}

	report := buildForecastReport(home, previous, tasks, result)
	var slip *notify.ForecastSlip
	if previous != nil && result.CompletionDate != nil && result.CompletionDate.After(*previous) {
		report.Slipped = true
		report.SlipDays = cal.WorkingDaysBetween(*previous, *result.CompletionDate)
		slip = &notify.ForecastSlip{
			HomeID:           home.ID,
			HomeLabel:        home.Label,
			PreviousForecast: *previous,
			NewForecast:      *result.CompletionDate,
			SlipDays:         report.SlipDays,
		}
	}
	return report, slip, nil
}

func buildForecastReport(home *domain.Home, previous *time.Time, tasks []*domain.HomeTask, result *scheduler.ForecastResult) *contract.ForecastReport {
	byID := make(map[string]*domain.HomeTask, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	report := &contract.ForecastReport{
		HomeID:             home.ID,
		HomeLabel:          home.Label,
		StartDate:          home.StartDate,
		PreviousCompletion: previous,
		CompletionDate:     result.CompletionDate,
		TargetCompletion:   home.TargetCompletionDate,
		TotalWorkingDays:   result.TotalWorkingDays,
		Tasks:              make([]contract.TaskForecastLine, 0, len(result.Order)),
	}
	for _, id := range result.Order {
		t, tf := byID[id], result.Tasks[id]
		report.Tasks = append(report.Tasks, contract.TaskForecastLine{
			TaskID:         id,
			Name:           t.NameSnapshot,
			Status:         string(t.Status),
			DurationDays:   t.DurationDaysSnapshot,
			EarliestStart:  tf.EarliestStart,
			EarliestFinish: tf.EarliestFinish,
			LatestStart:    tf.LatestStart,
			LatestFinish:   tf.LatestFinish,
			SlackDays:      tf.SlackDays,
			Critical:       tf.Critical,
		})
	}
	for _, id := range result.CriticalPath {
		report.CriticalPath = append(report.CriticalPath, byID[id].NameSnapshot)
	}
	return report
}
