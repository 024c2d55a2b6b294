// Package publisher provides audit event publishers: a structured-log
// publisher for development and a Kafka publisher for deployments where the
// audit stream feeds downstream consumers.
package publisher

import (
	"context"
	"log/slog"

	"github.com/rafaeld3v/gofinances/pkg/audit"
)

// LogPublisher writes audit events to the structured logger. Default sink
// when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event audit.Event) error {
	p.logger.InfoContext(ctx, string(event.Action),
		"log_type", "audit",
		"category", string(event.Category),
		"user_id", event.UserID,
		"provider", event.Provider,
		"device", event.Device,
		"request_id", event.RequestID,
		"reason", event.Reason,
	)
	return nil
}
