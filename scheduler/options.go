package scheduler

import "log/slog"

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	dataProcessors []StageHandler
	visualHandlers []StageHandler
	logger         *slog.Logger
	maxStalls      int
	defaultStep    int
	sideTableSize  int
}

func defaultOptions() options {
	return options{
		maxStalls:     DefaultMaxStalls,
		defaultStep:   DefaultStep,
		sideTableSize: DefaultSideTableSize,
	}
}

// Defaults.
const (
	DefaultMaxStalls     = 3
	DefaultStep          = 700
	DefaultSideTableSize = 1024
)

// WithDataProcessors appends data processor stage handlers. They run in
// the given order before every visual handler.
func WithDataProcessors(h ...StageHandler) Option {
	return func(o *options) {
		o.dataProcessors = append(o.dataProcessors, h...)
	}
}

// WithVisualHandlers appends visual stage handlers.
func WithVisualHandlers(h ...StageHandler) Option {
	return func(o *options) {
		o.visualHandlers = append(o.visualHandlers, h...)
	}
}

// WithLogger sets the scheduler logger. nil keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxStalls sets how many consecutive stalled chunks of one task are
// tolerated before a pass fails with ErrStalled. Values below 1 are
// ignored.
func WithMaxStalls(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxStalls = n
		}
	}
}

// WithDefaultStep sets the chunk size of series whose progressive setting
// is disabled; it only matters when progressive rendering is re-enabled.
func WithDefaultStep(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultStep = n
		}
	}
}

// WithSideTableSize sets the capacity of the side table. 0 means
// unbounded.
func WithSideTableSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.sideTableSize = n
		}
	}
}
