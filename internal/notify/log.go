package notify

import (
	"context"
	"log/slog"
)

// LogSink writes messages to the log instead of sending them. Used for local
// runs without an SMTP relay.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log.With(slog.String("component", "notify.log"))}
}

func (s *LogSink) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("email suppressed",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}
