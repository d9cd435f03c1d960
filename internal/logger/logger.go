package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Optionally sends errors to Sentry. The returned func flushes buffered Sentry events.
func Init(isDev bool, sentryDSN, environment string) func() {
	var sentryHandler slog.Handler

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			Environment:      environment,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			slog.Warn("sentry init failed, continuing without it", "error", err)
		} else {
			sentryHandler = slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler()
		}
	}

	Log = New(os.Stdout, isDev, sentryHandler)
	slog.SetDefault(Log)

	return func() {
		if sentryHandler != nil {
			sentry.Flush(2 * time.Second)
		}
	}
}

// New builds a logger writing to w, fanned out to extra handlers when given.
func New(w io.Writer, isDev bool, extra ...slog.Handler) *slog.Logger {
	var handlers []slog.Handler

	// Base handler (always enabled)
	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	for _, h := range extra {
		if h != nil {
			handlers = append(handlers, h)
		}
	}

	// Use multi-handler if we have multiple, otherwise use single
	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	return slog.New(handler)
}
