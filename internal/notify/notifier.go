package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Notifier receives schedule events.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }

// LogNotifier writes events to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, e Event) error {
	switch ev := e.(type) {
	case ForecastSlip:
		n.logger.LogAttrs(ctx, slog.LevelWarn, "forecast slipped",
			slog.String("event", ev.EventName()),
			slog.String("home_id", ev.HomeID),
			slog.String("home_label", ev.HomeLabel),
			slog.String("previous_forecast", ev.PreviousForecast.Format(time.DateOnly)),
			slog.String("new_forecast", ev.NewForecast.Format(time.DateOnly)),
			slog.Int("slip_days", ev.SlipDays),
		)
	case GateBlocked:
		n.logger.LogAttrs(ctx, slog.LevelInfo, "transition blocked by gate",
			slog.String("event", ev.EventName()),
			slog.String("home_id", ev.HomeID),
			slog.String("task_id", ev.TaskID),
			slog.String("task_name", ev.TaskName),
			slog.String("transition", ev.Transition),
			slog.String("gate_name", ev.GateName),
			slog.Int("open_punch_count", ev.OpenPunchCount),
		)
	default:
		return fmt.Errorf("unsupported event %T", e)
	}
	return nil
}

// MultiNotifier fans an event out to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
