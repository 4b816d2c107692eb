package events

import (
	"context"
	"log/slog"

	dErrors "rehome/pkg/domain-errors"
)

// HandlerFunc consumes a single dispatched event.
type HandlerFunc func(ctx context.Context, e Event) error

// Dispatcher routes committed events to their registered consumers.
//
// Dispatch is synchronous and in-process. Handlers run in registration order;
// a handler error stops dispatch of the remaining events so the caller can
// surface the failure instead of silently dropping follow-up work.
type Dispatcher struct {
	logger   *slog.Logger
	handlers map[string][]HandlerFunc
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string][]HandlerFunc),
	}
}

// Register subscribes a handler to all events with the given name.
func (d *Dispatcher) Register(name string, h HandlerFunc) {
	d.handlers[name] = append(d.handlers[name], h)
}

// Dispatch delivers each event to its handlers. Events without handlers are
// logged and skipped; the contract allows consumers to be wired selectively
// in tests.
func (d *Dispatcher) Dispatch(ctx context.Context, evts []Event) error {
	for _, e := range evts {
		hs, ok := d.handlers[e.EventName()]
		if !ok {
			d.logger.DebugContext(ctx, "no handler registered for event",
				"event", e.EventName(),
			)
			continue
		}
		for _, h := range hs {
			if err := h(ctx, e); err != nil {
				d.logger.ErrorContext(ctx, "event handler failed",
					"event", e.EventName(),
					"error", err.Error(),
				)
				return dErrors.Wrap(err, dErrors.CodeInternal, "event handler failed")
			}
		}
	}
	return nil
}
