package ggchart

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/ggchart/visual"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns
// false so callers skip building the record.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggchart and its stages.
// By default ggchart produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore the silent
// default. Charts created before the call keep the logger they were
// created with.
//
// Log levels used by ggchart:
//   - [slog.LevelDebug]: pass and chunk diagnostics, stream mode changes
//   - [slog.LevelInfo]: lifecycle events (option applied, series disposed)
//   - [slog.LevelWarn]: degraded input (series not stacked, illegal color)
//
// Example:
//
//	ggchart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	visual.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
