package audit

import (
	"context"
	"log/slog"
)

// LogSink writes events as structured log lines. Used when no brokers are
// configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit",
		"audit_id", event.ID,
		"action", event.Action,
		"case_id", event.CaseID,
		"caller", event.Caller,
		"strategy", event.Strategy,
		"institutions", event.Institutions,
		"document_ids", event.DocumentIDs,
		"failure", event.Failure,
		"request_id", event.RequestID,
	)
	return nil
}
