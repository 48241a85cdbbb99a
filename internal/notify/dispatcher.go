package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Dispatcher delivers events asynchronously. Errors and panics from the
// underlying notifier are logged and swallowed.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher wraps n. A nil notifier drops every event.
func NewDispatcher(n Notifier, logger *slog.Logger) *Dispatcher {
	if n == nil {
		n = NoopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: n, logger: logger}
}

// Dispatch hands e to the notifier on its own goroutine. The delivery
// context outlives ctx's cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.deliver(ctx, e); err != nil {
			d.logger.WarnContext(ctx, "notification delivery failed",
				slog.String("event", e.EventName()),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("notifier panic: %v", p)
		}
	}()
	return d.notifier.Notify(ctx, e)
}

// Wait blocks until every dispatched event has been delivered or dropped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
