package claimsapi

import (
	"log/slog"

	"github.com/hashicorp/go-retryablehttp"
)

type leveledLogger struct {
	log *slog.Logger
}

// NewLeveledLogger exposes an slog.Logger as a retryablehttp.LeveledLogger
// so retries are logged at the right level.
func NewLeveledLogger(log *slog.Logger) retryablehttp.LeveledLogger {
	if log == nil {
		log = slog.Default()
	}
	return &leveledLogger{log: log.With("component", "claimsapi")}
}

func (l *leveledLogger) Error(msg string, keysAndValues ...any) { l.log.Error(msg, keysAndValues...) }
func (l *leveledLogger) Info(msg string, keysAndValues ...any)  { l.log.Debug(msg, keysAndValues...) }
func (l *leveledLogger) Debug(msg string, keysAndValues ...any) { l.log.Debug(msg, keysAndValues...) }
func (l *leveledLogger) Warn(msg string, keysAndValues ...any)  { l.log.Warn(msg, keysAndValues...) }
