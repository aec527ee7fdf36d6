package ggchart

import "github.com/gogpu/ggchart/scheduler"

// Option configures a Chart during creation.
//
// Example:
//
//	chart := ggchart.New(
//	    ggchart.WithTarget(canvas),
//	    ggchart.WithPalette("#c23531", "#2f4554"),
//	)
type Option func(*chartOptions)

type chartOptions struct {
	target    Target
	palette   []string
	step      int
	maxStalls int
	scheduler []scheduler.Option
}

func defaultOptions() chartOptions {
	return chartOptions{}
}

// WithTarget sets the surface views draw on. It is handed to every view
// factory.
func WithTarget(t Target) Option {
	return func(o *chartOptions) {
		o.target = t
	}
}

// WithPalette replaces the default series palette. An option that sets
// its own "color" list overrides it.
func WithPalette(colors ...string) Option {
	return func(o *chartOptions) {
		o.palette = append([]string(nil), colors...)
	}
}

// WithProgressiveStep sets the chunk size of series whose option leaves
// "progressive" unset.
func WithProgressiveStep(n int) Option {
	return func(o *chartOptions) {
		o.step = n
	}
}

// WithMaxStalls sets how many chunks in a row a task may run without
// progress before a pass fails with scheduler.ErrStalled.
func WithMaxStalls(n int) Option {
	return func(o *chartOptions) {
		o.maxStalls = n
	}
}

// WithScheduler passes extra options to the scheduler, after the ones the
// chart sets itself.
func WithScheduler(opts ...scheduler.Option) Option {
	return func(o *chartOptions) {
		o.scheduler = append(o.scheduler, opts...)
	}
}
