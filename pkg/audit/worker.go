package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and hands them to a publisher.
// It keeps emission off the request path; a full inbox drops the event rather
// than blocking the caller.
type Worker struct {
	publisher Publisher
	inbox     chan Event
	logger    *slog.Logger
}

func NewWorker(publisher Publisher, buffer int, logger *slog.Logger) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	return &Worker{
		publisher: publisher,
		inbox:     make(chan Event, buffer),
		logger:    logger,
	}
}

// Emit queues an event for publication. Never blocks; audit must not stall
// the operation being audited.
func (w *Worker) Emit(ctx context.Context, event Event) error {
	select {
	case w.inbox <- event:
	default:
		w.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
		)
	}
	return nil
}

// Run drains the inbox until ctx is cancelled. Publish failures are logged,
// not fatal; losing an audit event must not take the worker down.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to publish audit event",
					"action", event.Action,
					"error", err.Error(),
				)
			}
		}
	}
}
