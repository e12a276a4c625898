// Package logging builds the server's loggers and carries them through
// request contexts.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger with timestamp formatting that writes to w and
// filters messages below level. Timestamps look like "14:32:01.45".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Level returns the debug level when verbose is set, info otherwise.
func Level(verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// Timer logs the duration of an operation when it finishes.
type Timer struct {
	logger *log.Logger
	start  time.Time
}

// Start begins timing.
func Start(l *log.Logger) *Timer {
	return &Timer{logger: l, start: time.Now()}
}

// Done logs msg with the elapsed time at debug level.
func (t *Timer) Done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(t.start).Round(time.Microsecond))
	t.logger.Debug(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger carried by ctx, or log.Default().
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
