package events

import (
	"context"
	"log/slog"
)

// LoggingHandler writes every event to the structured log. It is the
// default subscriber and gives an audit trail of all state changes.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a new LoggingHandler.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{
		logger: logger.With(slog.String("component", "event_log")),
	}
}

// HandleEvent implements Handler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.logger.InfoContext(ctx, "domain event",
		"event_id", event.ID,
		"event_type", event.Type,
		"payload", string(event.Payload),
		"occurred_at", event.OccurredAt)
	return nil
}
