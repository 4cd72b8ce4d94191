package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mstanek/apidex"
)

// Ensure LoggingAsker implements apidex.Asker.
var _ apidex.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with timed logging.
type LoggingAsker struct {
	next   apidex.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next apidex.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the operation.
func (a *LoggingAsker) Ask(ctx context.Context, apiID string, question string) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("ask",
			"api", apiID,
			"answer_bytes", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, apiID, question)
}
