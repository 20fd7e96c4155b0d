// Package cli implements the pomwalk command-line interface.
//
// The root command walks the transitive closure of a pom.xml into the local
// repository. Subcommands serve that repository over HTTP (serve), manage
// the negative lookup cache (cache) and generate shell completions.
//
// # Output streams
//
// Progress lines ("Downloading <path>") and the final summary go to stdout.
// Diagnostics go to stderr through a charmbracelet/log logger: info level by
// default, debug with --verbose. Loggers travel through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostics logger. Timestamps read "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// newProgressLogger returns the logger for "Downloading" lines. They are
// written with Print and so carry neither a level nor a timestamp.
func newProgressLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: log.InfoLevel})
}

// stopwatch logs how long a step took once it finishes.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time.
func (s stopwatch) done(msg string, keyvals ...any) {
	elapsed := time.Since(s.start).Round(time.Millisecond)
	s.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, falling back
// to log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
